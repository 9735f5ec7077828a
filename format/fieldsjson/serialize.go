package fieldsjson

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Serialize writes all records as one JSON array.
func (f *Format) Serialize(w io.Writer, records []*fields.Fields, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	all := &structpb.ListValue{}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		all.Values = append(all.Values, structpb.NewListValue(recordList(rec)))
	}

	marshal := protojson.MarshalOptions{}
	if opts.Pretty {
		marshal.Multiline = true
		marshal.Indent = "  "
	}
	data, err := marshal.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshaling fields: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing fields: %w", err)
	}
	return nil
}

func recordList(rec *fields.Fields) *structpb.ListValue {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, rec.Len())}
	for i := 0; i < rec.Len(); i++ {
		it := rec.At(i)
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"tag":   structpb.NewStringValue(it.Tag),
				"value": structpb.NewStringValue(it.Value),
				"level": structpb.NewNumberValue(float64(it.Level)),
				"used":  structpb.NewBoolValue(it.Used),
			},
		}))
	}
	return list
}
