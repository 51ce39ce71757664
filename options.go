package jsonshape

import (
	"github.com/viant/tagly/format/text"
)

// Option mutates worker options.
type Option interface{ apply(*Options) }

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// Options defines worker behavior.
type Options struct {
	// CaseFormat adds a member alias in this case format for members without an explicit name.
	CaseFormat text.CaseFormat
	// TimeLayout is used for time members without a per-member layout; empty means best-effort detection.
	TimeLayout string
	// DegradationSink receives every locally recovered malformed input.
	DegradationSink func(Degradation)
	// CacheSize bounds the number of memoized shapes per worker.
	CacheSize int
}

func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return optionFn(func(o *Options) { o.CaseFormat = caseFormat })
}

func WithTimeLayout(layout string) Option {
	return optionFn(func(o *Options) { o.TimeLayout = layout })
}

func WithDegradationSink(sink func(Degradation)) Option {
	return optionFn(func(o *Options) { o.DegradationSink = sink })
}

func WithCacheSize(size int) Option {
	return optionFn(func(o *Options) { o.CacheSize = size })
}

func resolveOptions(opts []Option) Options {
	result := Options{CacheSize: 2048}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	return result
}

type caseFormatTransformer struct {
	caseFormat text.CaseFormat
}

func (c caseFormatTransformer) Transform(fieldName string) string {
	if c.caseFormat == "" {
		return fieldName
	}
	if fieldName == "ID" {
		switch c.caseFormat {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	src := text.DetectCaseFormat(fieldName)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(fieldName, c.caseFormat)
}
