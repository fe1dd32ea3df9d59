package zkvm

import (
	"bytes"
	"testing"

	"github.com/zkattest/zkattest/crypto"
)

func testJournal(t *testing.T, message []byte) *Journal {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	defer kp.Destroy()
	return &Journal{PublicKey: kp.PublicKeyBytes(), Message: message}
}

func TestJournalRoundTrip(t *testing.T) {
	for _, msg := range [][]byte{
		[]byte("hello world"),
		[]byte(""),
		[]byte("Unicode: 你好世界"),
		bytes.Repeat([]byte{0xff}, 4096),
	} {
		j := testJournal(t, msg)
		enc, err := EncodeJournal(j)
		if err != nil {
			t.Fatalf("EncodeJournal: %v", err)
		}
		dec, err := DecodeJournal(enc)
		if err != nil {
			t.Fatalf("DecodeJournal: %v", err)
		}
		if !bytes.Equal(dec.PublicKey, j.PublicKey) {
			t.Fatal("public key mismatch after round trip")
		}
		if !bytes.Equal(dec.Message, j.Message) {
			t.Fatalf("message mismatch after round trip: %q != %q", dec.Message, j.Message)
		}
	}
}

func TestEncodeJournalRejectsBadPubKey(t *testing.T) {
	if _, err := EncodeJournal(&Journal{PublicKey: []byte{1, 2, 3}}); err != ErrJournalMalformed {
		t.Fatalf("err = %v, want ErrJournalMalformed", err)
	}
	if _, err := EncodeJournal(nil); err != ErrJournalMalformed {
		t.Fatalf("err = %v, want ErrJournalMalformed", err)
	}
}

func TestDecodeJournalRejectsTruncation(t *testing.T) {
	enc, err := EncodeJournal(testJournal(t, []byte("truncate me")))
	if err != nil {
		t.Fatalf("EncodeJournal: %v", err)
	}
	for _, cut := range []int{1, 10, len(enc) - 1} {
		if _, err := DecodeJournal(enc[:cut]); err != ErrJournalMalformed {
			t.Fatalf("DecodeJournal(enc[:%d]) err = %v, want ErrJournalMalformed", cut, err)
		}
	}
}

func TestDecodeJournalRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeJournal(testJournal(t, []byte("msg")))
	if err != nil {
		t.Fatalf("EncodeJournal: %v", err)
	}
	if _, err := DecodeJournal(append(enc, 0x00)); err != ErrJournalMalformed {
		t.Fatalf("err = %v, want ErrJournalMalformed", err)
	}
}

func TestDecodeJournalRejectsBadKeyLengthTag(t *testing.T) {
	enc, err := EncodeJournal(testJournal(t, []byte("msg")))
	if err != nil {
		t.Fatalf("EncodeJournal: %v", err)
	}
	enc[0] = 65
	if _, err := DecodeJournal(enc); err != ErrJournalMalformed {
		t.Fatalf("err = %v, want ErrJournalMalformed", err)
	}
}
