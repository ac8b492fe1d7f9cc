package template

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/superlaser97/label-craft/geom"
)

// ErrSerialization reports a corrupt or structurally invalid template
// document. Loads that fail with it leave the live document untouched.
var ErrSerialization = errors.New("invalid template document")

// MarshalObject encodes one object as its JSON fragment with the kind tag
// spliced in. Key order is deterministic, so equal objects always produce
// byte-identical fragments.
func MarshalObject(o Object) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil object", ErrSerialization)
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	kind, err := json.Marshal(o.Kind())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}

// UnmarshalObject decodes a JSON fragment into its concrete kind and fills
// defaulted fields. Fields absent in older documents get deterministic
// defaults, so decode-encode is idempotent after the first normalization.
func UnmarshalObject(data []byte) (Object, error) {
	var env struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	var o Object
	switch env.Kind {
	case KindStaticText:
		o = &StaticText{}
	case KindBoundText:
		o = &BoundText{}
	case KindBarcode:
		o = &Barcode{}
	case KindQrCode:
		o = &QrCode{}
	case KindImage:
		o = &Image{}
	case KindRect:
		o = &Rect{}
	case KindCircle:
		o = &Circle{}
	case KindTriangle:
		o = &Triangle{}
	case KindLine:
		o = &Line{}
	default:
		return nil, fmt.Errorf("%w: unknown object kind %q", ErrSerialization, env.Kind)
	}
	if err := json.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	o.normalize()
	return o, nil
}

// ObjectList preserves z-order through JSON round trips: list position is
// the z-order, later entries draw on top.
type ObjectList []Object

func (l ObjectList) MarshalJSON() ([]byte, error) {
	frags := make([]json.RawMessage, 0, len(l))
	for _, o := range l {
		frag, err := MarshalObject(o)
		if err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}
	return json.Marshal(frags)
}

func (l *ObjectList) UnmarshalJSON(data []byte) error {
	var frags []json.RawMessage
	if err := json.Unmarshal(data, &frags); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out := make(ObjectList, 0, len(frags))
	for _, frag := range frags {
		o, err := UnmarshalObject(frag)
		if err != nil {
			return err
		}
		out = append(out, o)
	}
	*l = out
	return nil
}

// Clone deep-copies the list.
func (l ObjectList) Clone() ObjectList {
	out := make(ObjectList, len(l))
	for i, o := range l {
		out[i] = o.Clone()
	}
	return out
}

// Document is the template interchange form: a named design with physical
// dimensions and the ordered scene graph.
type Document struct {
	TemplateName string          `json:"templateName"`
	Dimensions   geom.Dimensions `json:"dimensions"`
	Objects      ObjectList      `json:"objects"`
}

// NewDocument returns an empty document with validated dimensions.
func NewDocument(name string, dims geom.Dimensions) (*Document, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return &Document{TemplateName: name, Dimensions: dims, Objects: ObjectList{}}, nil
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		TemplateName: d.TemplateName,
		Dimensions:   d.Dimensions,
		Objects:      d.Objects.Clone(),
	}
}

// Encode serializes the document to its interchange JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// DecodeDocument parses and validates interchange JSON. It either returns a
// fully decoded document or an error; no partially decoded state escapes.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		if errors.Is(err, ErrSerialization) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := d.Dimensions.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if d.Objects == nil {
		d.Objects = ObjectList{}
	}
	return &d, nil
}
