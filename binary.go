package postag

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the binary document format:
//
//	message Document { repeated Sentence sentences = 1; }
//	message Sentence { repeated Token tokens = 1; }
//	message Token    { string text = 1; string tag = 2; }
const (
	fieldSentence protowire.Number = 1
	fieldToken    protowire.Number = 1
	fieldText     protowire.Number = 1
	fieldTag      protowire.Number = 2
)

// MarshalBinary encodes the document in protobuf wire format.
func (d Document) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, sent := range d {
		var sb []byte
		for _, tok := range sent {
			var tb []byte
			tb = protowire.AppendTag(tb, fieldText, protowire.BytesType)
			tb = protowire.AppendString(tb, tok.Text)
			tb = protowire.AppendTag(tb, fieldTag, protowire.BytesType)
			tb = protowire.AppendString(tb, tok.Tag)

			sb = protowire.AppendTag(sb, fieldToken, protowire.BytesType)
			sb = protowire.AppendBytes(sb, tb)
		}
		out = protowire.AppendTag(out, fieldSentence, protowire.BytesType)
		out = protowire.AppendBytes(out, sb)
	}
	return out, nil
}

// UnmarshalBinary decodes a document written by MarshalBinary, replacing *d.
// Unknown fields are skipped.
func (d *Document) UnmarshalBinary(data []byte) error {
	var doc Document
	err := consumeMessage(data, func(num protowire.Number, v []byte) error {
		if num != fieldSentence {
			return nil
		}
		sent := Sentence{}
		err := consumeMessage(v, func(num protowire.Number, v []byte) error {
			if num != fieldToken {
				return nil
			}
			tok, err := consumeToken(v)
			if err != nil {
				return err
			}
			sent = append(sent, tok)
			return nil
		})
		if err != nil {
			return err
		}
		doc = append(doc, sent)
		return nil
	})
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func consumeToken(data []byte) (Token, error) {
	var tok Token
	err := consumeMessage(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldText:
			tok.Text = string(v)
		case fieldTag:
			tok.Tag = string(v)
		}
		return nil
	})
	return tok, err
}

// consumeMessage walks the fields of one message and calls fn for every
// length-delimited field. Fields of other wire types are skipped.
func consumeMessage(data []byte, fn func(protowire.Number, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("decoding tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("skipping field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return fmt.Errorf("decoding field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]

		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}
