package httpapi

import (
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

func TestVerdictToDTO(t *testing.T) {
	cases := []struct {
		verdict     prediction.Verdict
		wantCorrect *bool
	}{
		{verdict: "", wantCorrect: nil},
		{verdict: prediction.VerdictCorrect, wantCorrect: boolPtr(true)},
		{verdict: prediction.VerdictIncorrect, wantCorrect: boolPtr(false)},
		{verdict: prediction.VerdictUnverifiable, wantCorrect: boolPtr(false)},
	}

	for _, tc := range cases {
		gotVerdict, gotCorrect := verdictToDTO(tc.verdict)
		if gotVerdict != string(tc.verdict) {
			t.Fatalf("verdict %q: got %q", tc.verdict, gotVerdict)
		}
		switch {
		case tc.wantCorrect == nil && gotCorrect != nil:
			t.Fatalf("verdict %q: expected correct to be omitted, got %v", tc.verdict, *gotCorrect)
		case tc.wantCorrect != nil && (gotCorrect == nil || *gotCorrect != *tc.wantCorrect):
			t.Fatalf("verdict %q: expected correct=%v, got %v", tc.verdict, *tc.wantCorrect, gotCorrect)
		}
	}
}

func TestMatchToDTO_UnverifiableCarriesCorrectFalse(t *testing.T) {
	dto := matchToDTO(context.Background(), usecase.MatchRecord{Verdict: prediction.VerdictUnverifiable})

	raw, err := sonic.Marshal(dto)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"verdict":"unverifiable"`) || !strings.Contains(body, `"correct":false`) {
		t.Fatalf("expected unverifiable verdict with correct=false, got %s", body)
	}
}

func boolPtr(v bool) *bool { return &v }
