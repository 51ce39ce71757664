package tagutil

import (
	"reflect"

	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

// MemberTag captures the tag attributes that drive accessor map construction.
type MemberTag struct {
	Name       string
	Explicit   bool
	Ignore     bool
	Inline     bool
	TimeLayout string
}

// ResolveMemberTag resolves precedence among json, format and internal tags.
// Precedence:
// 1) json explicit name or "-" wins over format name/case.
// 2) ignore is enabled by json:"-", internal:"true" or format:"ignore=true".
// 3) inline is enabled by anonymous struct fields or format:"inline=true".
func ResolveMemberTag(sf reflect.StructField) MemberTag {
	jTag := ParseJSONTag(sf.Name, sf.Tag.Get("json"))
	ret := MemberTag{
		Name:     jTag.Name,
		Explicit: jTag.Explicit,
		Ignore:   jTag.Transient || sf.Tag.Get("internal") == "true",
		Inline:   sf.Anonymous && !jTag.Explicit,
	}
	if _, ok := sf.Tag.Lookup(format.TagName); !ok {
		return ret
	}
	tag, err := format.Parse(sf.Tag)
	if err != nil || tag == nil {
		return ret
	}
	ret.Ignore = ret.Ignore || tag.Ignore
	ret.Inline = ret.Inline || tag.Inline
	if tag.TimeLayout != "" {
		ret.TimeLayout = tag.TimeLayout
	} else if tag.DateFormat != "" {
		ret.TimeLayout = ftime.DateFormatToTimeLayout(tag.DateFormat)
	}
	if !ret.Explicit && (tag.Name != "" || tag.CaseFormat != "") {
		if tag.Name == "" {
			tag.Name = sf.Name
		}
		if name := tag.CaseFormatName(""); name != "" {
			ret.Name = name
			ret.Explicit = true
		}
	}
	return ret
}
