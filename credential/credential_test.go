package credential

import (
	"bytes"
	"regexp"
	"testing"
)

var janeFields = Fields{
	RecipientName: "Jane Smith",
	RecipientID:   "BSC-2023-78912",
	DocumentType:  "Bachelor of Science",
}

const janeFingerprint = "0x852b18bfe1ff634a2296ae3eaa61f58c31430a13e6e009ad98b8d11a8dc57618"

func TestCanonicalize_ByteLayout(t *testing.T) {
	got := Canonicalize(janeFields)
	want := `{"documentType":"Bachelor of Science","recipientId":"BSC-2023-78912","recipientName":"Jane Smith"}`
	if string(got) != want {
		t.Fatalf("canonical bytes mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestCanonicalize_AssignmentOrderIrrelevant(t *testing.T) {
	a := Fields{}
	a.DocumentType = "Bachelor of Science"
	a.RecipientName = "Jane Smith"
	a.RecipientID = "BSC-2023-78912"

	b := Fields{}
	b.RecipientID = "BSC-2023-78912"
	b.DocumentType = "Bachelor of Science"
	b.RecipientName = "Jane Smith"

	if !bytes.Equal(Canonicalize(a), Canonicalize(b)) {
		t.Fatalf("canonicalization depends on assignment order")
	}
}

func TestCanonicalize_TrimsAndFillsSentinel(t *testing.T) {
	cases := []struct {
		name string
		in   Fields
		want string
	}{
		{
			name: "surrounding whitespace trimmed",
			in:   Fields{RecipientName: "  Jane Smith\t", RecipientID: " BSC-2023-78912 ", DocumentType: "Bachelor of Science\n"},
			want: `{"documentType":"Bachelor of Science","recipientId":"BSC-2023-78912","recipientName":"Jane Smith"}`,
		},
		{
			name: "empty fields become sentinel",
			in:   Fields{},
			want: `{"documentType":"NOT_FOUND","recipientId":"NOT_FOUND","recipientName":"NOT_FOUND"}`,
		},
		{
			name: "whitespace-only field becomes sentinel",
			in:   Fields{RecipientName: "   ", RecipientID: "X-1", DocumentType: "Diploma"},
			want: `{"documentType":"Diploma","recipientId":"X-1","recipientName":"NOT_FOUND"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(Canonicalize(tc.in)); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestCanonicalize_NoHTMLEscaping(t *testing.T) {
	got := string(Canonicalize(Fields{
		RecipientName: "A & B",
		RecipientID:   "<X>",
		DocumentType:  "Arts",
	}))
	want := `{"documentType":"Arts","recipientId":"<X>","recipientName":"A & B"}`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestCanonicalize_DescriptiveFieldsExcluded(t *testing.T) {
	withMeta := janeFields
	withMeta.RecipientEmail = "jane@example.edu"
	withMeta.RecipientWallet = "0xabc"
	withMeta.Description = "First class honours"
	withMeta.DocumentID = "doc-42"

	if !bytes.Equal(Canonicalize(janeFields), Canonicalize(withMeta)) {
		t.Fatalf("descriptive metadata leaked into the canonical record")
	}
}

func TestFingerprint_GoldenVectors(t *testing.T) {
	if got := Fingerprint(Canonicalize(janeFields)); got != janeFingerprint {
		t.Fatalf("jane vector mismatch: got %s want %s", got, janeFingerprint)
	}
	const sentinelFP = "0x064c427cd174fe7a0ecd498781beaac5037180a9ff74c4990598111d339d0ee6"
	if got := Fingerprint(Canonicalize(Fields{})); got != sentinelFP {
		t.Fatalf("sentinel vector mismatch: got %s want %s", got, sentinelFP)
	}
}

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	first := FingerprintFields(janeFields)
	for i := 0; i < 50; i++ {
		if got := FingerprintFields(janeFields); got != first {
			t.Fatalf("fingerprint unstable on call %d: %s vs %s", i, got, first)
		}
	}
}

func TestFingerprint_SingleCharacterChange(t *testing.T) {
	altered := janeFields
	altered.RecipientID = "BSC-2023-78913"
	if FingerprintFields(altered) == FingerprintFields(janeFields) {
		t.Fatalf("one-character change did not alter the fingerprint")
	}
}

func TestFingerprint_Format(t *testing.T) {
	re := regexp.MustCompile(`^0x[0-9a-f]{64}$`)
	for _, f := range []Fields{janeFields, {}, {RecipientName: "É"}} {
		if got := FingerprintFields(f); !re.MatchString(got) {
			t.Fatalf("fingerprint %q not 0x + 64 lowercase hex", got)
		}
	}
}
