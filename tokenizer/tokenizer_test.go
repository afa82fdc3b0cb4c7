package tokenizer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var testVocab = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"the", "play", "##ing", "##ed", "un", "##want", ".", ",", "학생", "##입니다",
}

func newTestTokenizer(t *testing.T, opts ...Option) *Tokenizer {
	t.Helper()
	tok, err := FromPieces(testVocab, opts...)
	if err != nil {
		t.Fatalf("FromPieces failed: %v", err)
	}
	return tok
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(testVocab, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tok, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() {
		if err := tok.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	if tok.VocabSize() != len(testVocab) {
		t.Errorf("expected vocab size = %d, got %d", len(testVocab), tok.VocabSize())
	}
	if tok.PadID() != 0 || tok.UnkID() != 1 || tok.CLSID() != 2 || tok.SEPID() != 3 {
		t.Errorf("special ids = pad %d unk %d cls %d sep %d", tok.PadID(), tok.UnkID(), tok.CLSID(), tok.SEPID())
	}
	if tok.Piece(5) != "play" {
		t.Errorf("Piece(5) = %q, want play", tok.Piece(5))
	}
}

func TestNew_FileNotFound(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nonexistent.txt"))
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestFromPieces_NoUnknown(t *testing.T) {
	if _, err := FromPieces([]string{"a", "b"}); err == nil {
		t.Error("expected error for vocabulary without [UNK]")
	}
}

func TestTokenizer_Encode(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.Encode("the playing, unwanted")

	want := []TokenInfo{
		{ID: 4, Text: "the", Start: 0, End: 3, Word: 0, First: true},
		{ID: 5, Text: "play", Start: 4, End: 8, Word: 1, First: true},
		{ID: 6, Text: "ing", Start: 8, End: 11, Word: 1},
		{ID: 11, Text: ",", Start: 11, End: 12, Word: 2, First: true},
		{ID: 8, Text: "un", Start: 13, End: 15, Word: 3, First: true},
		{ID: 9, Text: "want", Start: 15, End: 19, Word: 3},
		{ID: 7, Text: "ed", Start: 19, End: 21, Word: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestTokenizer_Encode_Unknown(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.Encode("xyz")
	if len(got) != 1 || got[0].ID != tok.UnkID() || got[0].Text != "xyz" {
		t.Errorf("expected a single [UNK] piece, got %+v", got)
	}
}

func TestTokenizer_Encode_Lowercase(t *testing.T) {
	tok := newTestTokenizer(t, WithLowercase())

	ids := tok.EncodeIDs("The PLAYED")
	want := []int32{4, 5, 7}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("EncodeIDs = %v, want %v", ids, want)
	}
}

func TestTokenizer_Encode_Hangul(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.Encode("학생입니다.")
	if len(got) != 3 {
		t.Fatalf("expected 3 pieces, got %+v", got)
	}
	if got[1].Text != "입니다" || got[1].Start != len("학생") || got[1].First {
		t.Errorf("unexpected continuation piece %+v", got[1])
	}
	if got[2].Text != "." || got[2].Word != 1 {
		t.Errorf("unexpected punctuation piece %+v", got[2])
	}
}
