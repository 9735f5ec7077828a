package fieldsjson

import (
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Parse reads a field dump. Fields keep their order, level and used flag.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*fields.Fields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading fields: %w", err)
	}

	var all structpb.ListValue
	if err := protojson.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}

	records := make([]*fields.Fields, 0, len(all.GetValues()))
	for i, v := range all.GetValues() {
		info := fields.New()
		if err := convert(v, info); err != nil {
			if err := format.RecordFailed(opts, i, err); err != nil {
				return nil, err
			}
			continue
		}
		format.Dump(opts, i, info)
		records = append(records, info)
	}
	return records, nil
}

func convert(v *structpb.Value, info *fields.Fields) error {
	list := v.GetListValue()
	if list == nil {
		return errors.New("record is not an array")
	}
	for j, item := range list.GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			return fmt.Errorf("field %d is not an object", j+1)
		}
		tag := obj.GetFields()["tag"].GetStringValue()
		if tag == "" {
			return fmt.Errorf("field %d has no tag", j+1)
		}
		level := obj.GetFields()["level"].GetNumberValue()
		if level != math.Trunc(level) || (level < 0 && level != fields.LevelOriginal) {
			return fmt.Errorf("field %d: invalid level %v", j+1, level)
		}
		n, err := info.AddDup(tag, obj.GetFields()["value"].GetStringValue(), int(level))
		if err != nil {
			return err
		}
		if obj.GetFields()["used"].GetBoolValue() {
			info.MarkUsed(n)
		}
	}
	return nil
}
