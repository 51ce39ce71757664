package jsonshape

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"github.com/shopspring/decimal"
	"github.com/viant/jsonshape/internal/plan"
	"github.com/viant/jsonshape/internal/scan"
	"github.com/viant/jsonshape/internal/timefmt"
)

const nullLiteral = "null"

// parse builds a value of rType from compacted text; an invalid value means null.
func (w *Worker) parse(text string, rType reflect.Type) (reflect.Value, error) {
	switch rType {
	case nodeType:
		return reflect.ValueOf(*w.parseNode(text)), nil
	case nodePtrType:
		return reflect.ValueOf(w.parseNode(text)), nil
	case decimalType:
		return reflect.ValueOf(w.parseDecimal(text)), nil
	case timeType:
		return reflect.ValueOf(w.parseTime(text, w.options.TimeLayout)), nil
	}
	kind := rType.Kind()
	if kind == reflect.Interface {
		ret := reflect.New(rType).Elem()
		if value := w.parseNode(text).Interface(); value != nil {
			ret.Set(reflect.ValueOf(value))
		}
		return ret, nil
	}
	enum := isEnum(rType)
	if !enum {
		switch kind {
		case reflect.String:
			return w.parseString(text, rType), nil
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return parsePrimitive(text, rType)
		}
	}
	if text == nullLiteral {
		return reflect.Value{}, nil
	}
	if enum {
		return w.parseEnum(text, rType), nil
	}
	switch kind {
	case reflect.Array:
		return w.parseArray(text, rType)
	case reflect.Slice:
		return w.parseSlice(text, rType)
	case reflect.Map:
		return w.parseMap(text, rType)
	case reflect.Ptr:
		return w.parsePointer(text, rType)
	case reflect.Struct:
		return w.parseStruct(text, rType)
	}
	return reflect.Value{}, nil
}

func isEnum(rType reflect.Type) bool {
	switch rType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rType.Implements(enumType) || reflect.PointerTo(rType).Implements(enumType)
	}
	return false
}

func (w *Worker) parseString(text string, rType reflect.Type) reflect.Value {
	if text == nullLiteral {
		return reflect.Value{}
	}
	ret := reflect.New(rType).Elem()
	ret.SetString(w.unescape(text))
	return ret
}

func (w *Worker) unescape(text string) string {
	if len(text) < 2 {
		return ""
	}
	if text[0] != '"' {
		return text
	}
	content := text[1 : len(text)-1]
	if strings.IndexByte(content, '\\') == -1 {
		return content
	}
	buf := w.buffers.Get()
	buf.B = appendUnescaped(buf.B[:0], content)
	ret := string(buf.B)
	w.buffers.Put(buf)
	return ret
}

func appendUnescaped(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			dst = append(dst, c)
			continue
		}
		switch escaped := s[i+1]; escaped {
		case '"', '\\', '/':
			dst = append(dst, escaped)
			i++
		case 'b':
			dst = append(dst, '\b')
			i++
		case 'f':
			dst = append(dst, '\f')
			i++
		case 'n':
			dst = append(dst, '\n')
			i++
		case 'r':
			dst = append(dst, '\r')
			i++
		case 't':
			dst = append(dst, '\t')
			i++
		case 'u':
			r, ok := parseHex4(s, i+2)
			if !ok {
				dst = append(dst, c)
				continue
			}
			i += 5
			if utf16.IsSurrogate(r) {
				combined := utf8.RuneError
				if i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
					if low, ok := parseHex4(s, i+3); ok {
						if combined = utf16.DecodeRune(r, low); combined != utf8.RuneError {
							i += 6
						}
					}
				}
				r = combined
			}
			dst = utf8.AppendRune(dst, r)
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

func parseHex4(s string, start int) (rune, bool) {
	if start+4 > len(s) {
		return 0, false
	}
	var ret rune
	for i := start; i < start+4; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		ret = ret<<4 | rune(c)
	}
	return ret, true
}

func parsePrimitive(text string, rType reflect.Type) (reflect.Value, error) {
	ret := reflect.New(rType).Elem()
	var err error
	switch kind := rType.Kind(); {
	case kind == reflect.Bool:
		switch text {
		case "true":
			ret.SetBool(true)
		case "false":
		default:
			err = &strconv.NumError{Func: "ParseBool", Num: text, Err: strconv.ErrSyntax}
		}
	case !isNumberLiteral(text):
		err = &strconv.NumError{Func: "ParseNumber", Num: text, Err: strconv.ErrSyntax}
	case kind == reflect.Float32 || kind == reflect.Float64:
		var value float64
		if value, err = strconv.ParseFloat(text, rType.Bits()); err == nil {
			ret.SetFloat(value)
		}
	case kind >= reflect.Uint && kind <= reflect.Uint64:
		var value uint64
		if value, err = strconv.ParseUint(text, 10, rType.Bits()); err == nil {
			ret.SetUint(value)
		}
	default:
		var value int64
		if value, err = strconv.ParseInt(text, 10, rType.Bits()); err == nil {
			ret.SetInt(value)
		}
	}
	if err != nil {
		return reflect.Value{}, &ConversionError{Text: text, Type: rType, Err: err}
	}
	return ret, nil
}

// isNumberLiteral rejects the strconv extensions JSON does not allow: signs other
// than a leading minus, NaN/Inf spellings, base prefixes and digit separators.
func isNumberLiteral(text string) bool {
	digits := strings.TrimPrefix(text, "-")
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return false
	}
	return !strings.ContainsAny(digits, "xX_")
}

func trimQuotes(text string) string {
	if scan.Enclosed(text, '"', '"') {
		return scan.Dequote(text)
	}
	return text
}

func (w *Worker) parseDecimal(text string) decimal.Decimal {
	if text == nullLiteral {
		return decimal.Zero
	}
	ret, err := decimal.NewFromString(trimQuotes(text))
	if err != nil {
		w.degrade("invalid decimal", text)
		return decimal.Zero
	}
	return ret
}

func (w *Worker) parseTime(text string, layout string) time.Time {
	if text == nullLiteral {
		return time.Time{}
	}
	ret, err := timefmt.Parse(layout, trimQuotes(text))
	if err != nil {
		w.degrade("invalid time", text)
		return time.Time{}
	}
	return ret
}

func (w *Worker) parseEnum(text string, rType reflect.Type) reflect.Value {
	ret := reflect.New(rType).Elem()
	value, ok := w.enumValues(rType)[strings.ToLower(trimQuotes(text))]
	if !ok {
		w.degrade("unknown enum name", text)
		return ret
	}
	switch rType.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		ret.SetUint(uint64(value))
	default:
		ret.SetInt(value)
	}
	return ret
}

func (w *Worker) parseElement(text string, rType reflect.Type, index int) (reflect.Value, error) {
	if w.tracking() {
		w.path.pushIndex(index)
		defer w.path.pop()
	}
	ret, err := w.parse(text, rType)
	if err != nil {
		return ret, withPath(err, "["+strconv.Itoa(index)+"]")
	}
	return ret, nil
}

func (w *Worker) parseArray(text string, rType reflect.Type) (reflect.Value, error) {
	if !scan.Enclosed(text, '[', ']') {
		w.degrade("expected array", text)
		return reflect.Value{}, nil
	}
	list := w.split(text)
	defer w.release(list)
	ret := reflect.New(rType).Elem()
	for i, item := range list.items {
		if i >= ret.Len() {
			break
		}
		value, err := w.parseElement(item, rType.Elem(), i)
		if err != nil {
			return reflect.Value{}, err
		}
		if value.IsValid() {
			ret.Index(i).Set(value)
		}
	}
	return ret, nil
}

func (w *Worker) parseSlice(text string, rType reflect.Type) (reflect.Value, error) {
	if !scan.Enclosed(text, '[', ']') {
		w.degrade("expected array", text)
		return reflect.Value{}, nil
	}
	list := w.split(text)
	defer w.release(list)
	ret := reflect.MakeSlice(rType, len(list.items), len(list.items))
	for i, item := range list.items {
		value, err := w.parseElement(item, rType.Elem(), i)
		if err != nil {
			return reflect.Value{}, err
		}
		if value.IsValid() {
			ret.Index(i).Set(value)
		}
	}
	return ret, nil
}

func (w *Worker) parseMap(text string, rType reflect.Type) (reflect.Value, error) {
	if !scan.Enclosed(text, '{', '}') {
		w.degrade("expected object", text)
		return reflect.Value{}, nil
	}
	if rType.Key().Kind() != reflect.String {
		w.degrade("non-string map key", text)
		return reflect.Value{}, nil
	}
	list := w.split(text)
	defer w.release(list)
	items := list.items
	if len(items)%2 == 1 {
		w.degrade("dangling key", items[len(items)-1])
	}
	ret := reflect.MakeMapWithSize(rType, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		name := scan.Dequote(items[i])
		value, err := w.parseMember(items[i+1], name, rType.Elem(), "")
		if err != nil {
			return reflect.Value{}, withPath(err, name)
		}
		if !value.IsValid() {
			value = reflect.Zero(rType.Elem())
		}
		key := reflect.New(rType.Key()).Elem()
		key.SetString(name)
		ret.SetMapIndex(key, value)
	}
	return ret, nil
}

func (w *Worker) parsePointer(text string, rType reflect.Type) (reflect.Value, error) {
	value, err := w.parse(text, rType.Elem())
	if err != nil || !value.IsValid() {
		return reflect.Value{}, err
	}
	ret := reflect.New(rType.Elem())
	ret.Elem().Set(value)
	return ret, nil
}

func (w *Worker) parseStruct(text string, rType reflect.Type) (reflect.Value, error) {
	if !scan.Enclosed(text, '{', '}') {
		w.degrade("expected object", text)
		return reflect.Value{}, nil
	}
	aPlan, err := w.planFor(rType)
	if err != nil {
		return reflect.Value{}, &ShapeError{Type: rType, Err: err}
	}
	holder := reflect.New(rType)
	root := unsafe.Pointer(holder.Pointer())
	list := w.split(text)
	defer w.release(list)
	items := list.items
	if len(items)%2 == 1 {
		w.degrade("dangling key", items[len(items)-1])
	}
	for i := 0; i+1 < len(items); i += 2 {
		key := items[i]
		if len(key) < 3 {
			continue
		}
		accessor := aPlan.Lookup(key[1 : len(key)-1])
		if accessor == nil {
			continue
		}
		value, err := w.parseAccessor(items[i+1], accessor)
		if err != nil {
			return reflect.Value{}, withPath(err, accessor.Name)
		}
		if value.IsValid() {
			accessor.Set(root, value)
		}
		aPlan.Mark(root, accessor)
	}
	return holder.Elem(), nil
}

func (w *Worker) parseAccessor(text string, accessor *plan.Accessor) (reflect.Value, error) {
	return w.parseMember(text, accessor.Name, accessor.Type, accessor.TimeLayout)
}

func (w *Worker) parseMember(text, name string, rType reflect.Type, timeLayout string) (reflect.Value, error) {
	if w.tracking() {
		w.path.pushField(name)
		defer w.path.pop()
	}
	if timeLayout != "" {
		switch rType {
		case timeType:
			return reflect.ValueOf(w.parseTime(text, timeLayout)), nil
		case timePtrType:
			if text == nullLiteral {
				return reflect.Value{}, nil
			}
			ret := reflect.New(timeType)
			ret.Elem().Set(reflect.ValueOf(w.parseTime(text, timeLayout)))
			return ret, nil
		}
	}
	return w.parse(text, rType)
}
