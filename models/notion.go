package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotARecordList   = errors.New("blog data is not a JSON array")
	ErrInvalidPostShape = errors.New("record does not look like a post")
)

// RichTextKind tells which shape a rich text value arrived in.
type RichTextKind int

const (
	RichTextNone RichTextKind = iota
	RichTextSingle
	RichTextMany
)

// RichTextFragment is one styled run of text from the authoring system.
type RichTextFragment struct {
	PlainText string `json:"plain_text"`
}

// RichText is either nothing, a single fragment, or an ordered list of fragments.
type RichText struct {
	Kind      RichTextKind
	Fragments []RichTextFragment
}

// UnmarshalJSON never fails: shapes it does not recognise decode to RichTextNone.
func (rt *RichText) UnmarshalJSON(data []byte) error {
	*rt = RichText{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		fragments := make([]RichTextFragment, 0, len(items))
		for _, item := range items {
			if fragment, ok := decodeFragment(item); ok {
				fragments = append(fragments, fragment)
			}
		}
		rt.Kind = RichTextMany
		rt.Fragments = fragments
	case '{':
		if fragment, ok := decodeFragment(data); ok {
			rt.Kind = RichTextSingle
			rt.Fragments = []RichTextFragment{fragment}
		}
	}
	return nil
}

// Plain concatenates the fragments in order.
func (rt RichText) Plain() string {
	switch rt.Kind {
	case RichTextSingle, RichTextMany:
		var b strings.Builder
		for _, fragment := range rt.Fragments {
			b.WriteString(fragment.PlainText)
		}
		return b.String()
	default:
		return ""
	}
}

func decodeFragment(data json.RawMessage) (RichTextFragment, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return RichTextFragment{}, false
	}

	var plain string
	if raw, ok := obj["plain_text"]; ok && json.Unmarshal(raw, &plain) == nil {
		return RichTextFragment{PlainText: plain}, true
	}

	// text objects written by hand sometimes carry only text.content
	if raw, ok := obj["text"]; ok {
		var text struct {
			Content string `json:"content"`
		}
		if json.Unmarshal(raw, &text) == nil {
			return RichTextFragment{PlainText: text.Content}, true
		}
	}
	return RichTextFragment{}, false
}

// SelectOption is a select or multi-select choice.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a date property; only the start is used.
type DateValue struct {
	Start string `json:"start"`
}

// FileObject is either an externally hosted file or one hosted by the authoring platform.
type FileObject struct {
	Name     string
	External string
	Hosted   string
}

// URL prefers the externally hosted location.
func (f FileObject) URL() string {
	if f.External != "" {
		return f.External
	}
	return f.Hosted
}

// Property is one entry of a record's properties mapping. Only the variants
// present in the export are set.
type Property struct {
	Type        string
	Title       RichText
	RichText    RichText
	Select      *SelectOption
	MultiSelect []SelectOption
	Date        *DateValue
	Number      *float64
	URL         *string
	Files       []FileObject
	Checkbox    *bool

	// Scalar set when a flat export wrote a bare string instead of a typed property.
	Scalar *string
}

// UnmarshalJSON decodes each variant independently and drops the ones with the
// wrong shape. It never returns an error.
func (p *Property) UnmarshalJSON(data []byte) error {
	*p = Property{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil
		}
		p.decodeTyped(fields)
	case '[':
		// flat export: a bare list can be text fragments, options or files
		_ = p.RichText.UnmarshalJSON(data)
		p.MultiSelect = decodeOptions(data)
		p.Files = decodeFiles(data)
	case '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			p.Scalar = &s
		}
	case 't', 'f':
		var b bool
		if json.Unmarshal(data, &b) == nil {
			p.Checkbox = &b
		}
	case 'n':
	default:
		var n float64
		if json.Unmarshal(data, &n) == nil {
			p.Number = &n
		}
	}
	return nil
}

func (p *Property) decodeTyped(fields map[string]json.RawMessage) {
	if raw, ok := fields["type"]; ok {
		_ = json.Unmarshal(raw, &p.Type)
	}
	if raw, ok := fields["title"]; ok {
		_ = p.Title.UnmarshalJSON(raw)
	}
	if raw, ok := fields["rich_text"]; ok {
		_ = p.RichText.UnmarshalJSON(raw)
	}
	if raw, ok := fields["plain_text"]; ok && p.RichText.Kind == RichTextNone {
		// a lone fragment written in place of the typed property
		var plain string
		if json.Unmarshal(raw, &plain) == nil {
			p.RichText = RichText{Kind: RichTextSingle, Fragments: []RichTextFragment{{PlainText: plain}}}
		}
	}
	if raw, ok := fields["select"]; ok {
		if option, ok := decodeOption(raw); ok {
			p.Select = &option
		}
	}
	if raw, ok := fields["multi_select"]; ok {
		p.MultiSelect = decodeOptions(raw)
	}
	if raw, ok := fields["date"]; ok {
		var date DateValue
		if json.Unmarshal(raw, &date) == nil && date.Start != "" {
			p.Date = &date
		}
	}
	if raw, ok := fields["number"]; ok {
		var n float64
		if json.Unmarshal(raw, &n) == nil {
			p.Number = &n
		}
	}
	if raw, ok := fields["url"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			p.URL = &s
		}
	}
	if raw, ok := fields["files"]; ok {
		p.Files = decodeFiles(raw)
	}
	if raw, ok := fields["checkbox"]; ok {
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			p.Checkbox = &b
		}
	}
}

func decodeOption(data json.RawMessage) (SelectOption, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return SelectOption{}, false
	}
	var name string
	if raw, ok := obj["name"]; ok && json.Unmarshal(raw, &name) == nil {
		return SelectOption{Name: name}, true
	}
	return SelectOption{}, false
}

func decodeOptions(data json.RawMessage) []SelectOption {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	var options []SelectOption
	for _, item := range items {
		if option, ok := decodeOption(item); ok {
			options = append(options, option)
		}
	}
	return options
}

func decodeFiles(data json.RawMessage) []FileObject {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	type location struct {
		URL string `json:"url"`
	}
	var files []FileObject
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		var file FileObject
		if raw, ok := obj["name"]; ok {
			_ = json.Unmarshal(raw, &file.Name)
		}
		var external, hosted location
		if raw, ok := obj["external"]; ok && json.Unmarshal(raw, &external) == nil {
			file.External = external.URL
		}
		if raw, ok := obj["file"]; ok && json.Unmarshal(raw, &hosted) == nil {
			file.Hosted = hosted.URL
		}
		if file.URL() == "" {
			continue
		}
		files = append(files, file)
	}
	return files
}

// Text returns the property's textual value: title, then rich text, then a
// select name, then a bare string.
func (p Property) Text() string {
	if text := p.Title.Plain(); text != "" {
		return text
	}
	if text := p.RichText.Plain(); text != "" {
		return text
	}
	if p.Select != nil && p.Select.Name != "" {
		return p.Select.Name
	}
	if p.Scalar != nil {
		return *p.Scalar
	}
	return ""
}

// Names returns the non-empty multi-select names in order.
func (p Property) Names() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, option := range p.MultiSelect {
		if name := strings.TrimSpace(option.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RawPostRecord is one untrusted entry of the exported blog document.
type RawPostRecord struct {
	ID             string
	CreatedTime    string
	LastEditedTime string
	URL            string
	Content        string
	Properties     map[string]Property
}

// Property looks up the first of names present on the record. Exact keys win
// over case-insensitive matches.
func (r RawPostRecord) Property(names ...string) (Property, bool) {
	for _, name := range names {
		if property, ok := r.Properties[name]; ok {
			return property, true
		}
	}
	keys := slices.Sorted(maps.Keys(r.Properties))
	for _, name := range names {
		for _, key := range keys {
			if strings.EqualFold(strings.TrimSpace(key), name) {
				return r.Properties[key], true
			}
		}
	}
	return Property{}, false
}

// ParseRawPostRecords checks that data is a JSON array whose elements are
// objects carrying at least "id" and an object-valued "properties", then
// decodes each element leniently.
func ParseRawPostRecords(data []byte) ([]RawPostRecord, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotARecordList, err)
	}

	records := make([]RawPostRecord, 0, len(items))
	for i, item := range items {
		record, err := parseRawPostRecord(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRawPostRecord(data json.RawMessage) (RawPostRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return RawPostRecord{}, ErrInvalidPostShape
	}

	rawID, ok := fields["id"]
	if !ok {
		return RawPostRecord{}, fmt.Errorf("%w: missing id", ErrInvalidPostShape)
	}
	rawProperties, ok := fields["properties"]
	if !ok {
		return RawPostRecord{}, fmt.Errorf("%w: missing properties", ErrInvalidPostShape)
	}
	var properties map[string]Property
	if err := json.Unmarshal(rawProperties, &properties); err != nil || properties == nil {
		return RawPostRecord{}, fmt.Errorf("%w: properties is not an object", ErrInvalidPostShape)
	}

	record := RawPostRecord{
		ID:         decodeID(rawID),
		Properties: properties,
	}
	record.CreatedTime = decodeString(fields["created_time"])
	record.LastEditedTime = decodeString(fields["last_edited_time"])
	record.URL = decodeString(fields["url"])
	record.Content = decodeString(fields["content"])
	return record, nil
}

func decodeID(data json.RawMessage) string {
	var s string
	if json.Unmarshal(data, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(data, &n) == nil {
		return n.String()
	}
	return ""
}

func decodeString(data json.RawMessage) string {
	if data == nil {
		return ""
	}
	var s string
	if json.Unmarshal(data, &s) != nil {
		return ""
	}
	return s
}
