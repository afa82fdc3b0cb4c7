package eval

import (
	"reflect"
	"testing"

	postag "github.com/jamesainslie/go-postag"
)

func sentence(words ...string) postag.Sentence {
	s := make(postag.Sentence, len(words))
	for i, w := range words {
		s[i] = postag.Token{Text: w, Tag: "X"}
	}
	return s
}

func TestGoldBoundaries(t *testing.T) {
	got := GoldBoundaries([]string{"Hello world.", "   ", "How are you?"})
	want := []int{11, 21}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GoldBoundaries = %v, want %v", got, want)
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		doc  postag.Document
		want []int
	}{
		{
			name: "punctuated",
			text: "Hello world. How are you?",
			doc:  postag.Document{sentence("Hello", "world", "."), sentence("How", "are", "you", "?")},
			want: []int{11, 21},
		},
		{
			name: "synthetic dots do not advance",
			text: "저는 학생입니다 저는 행복합니다",
			doc:  postag.Document{sentence("저는", "학생입니다", "."), sentence("저는", "행복합니다", ".")},
			want: []int{7, 14},
		},
		{
			name: "sentence of only synthetic tokens",
			text: "one two",
			doc:  postag.Document{sentence("one", "two"), sentence(".")},
			want: []int{6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boundaries(tt.text, tt.doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Boundaries = %v, want %v", got, tt.want)
			}
		})
	}
}
