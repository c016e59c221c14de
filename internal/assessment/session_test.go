package assessment

import (
	"errors"
	"testing"
)

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	err := s.SetCompanyInfo(CompanyInfo{
		Industry:   "healthcare",
		Country:    "Germany",
		CompanyURL: "https://www.example.com",
	})
	if err != nil {
		t.Fatalf("set company info: %v", err)
	}
	return s
}

func TestIntakeRequiresAllFields(t *testing.T) {
	cases := []CompanyInfo{
		{},
		{Industry: "finance", Country: "Kenya"},
		{Industry: "finance", CompanyURL: "https://x.com"},
		{Country: "Kenya", CompanyURL: "https://x.com"},
		{Industry: "  ", Country: "Kenya", CompanyURL: "https://x.com"},
	}
	for _, info := range cases {
		s := NewSession()
		if err := s.SetCompanyInfo(info); !errors.Is(err, ErrMissingCompany) {
			t.Fatalf("SetCompanyInfo(%+v) = %v, want ErrMissingCompany", info, err)
		}
		if s.Step() != StepIntake {
			t.Fatal("session left intake on invalid company info")
		}
	}
}

func TestAdvanceRejectedWhileUnanswered(t *testing.T) {
	s := startedSession(t)
	if err := s.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("advance before answer = %v, want ErrUnanswered", err)
	}
	q, err := s.CurrentQuestion()
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	if q.ID != "q1" {
		t.Fatalf("current question = %s, want q1", q.ID)
	}
}

func TestRetreatAtFirstQuestionIsNoop(t *testing.T) {
	s := startedSession(t)
	s.Retreat()
	q, _ := s.CurrentQuestion()
	if q.ID != "q1" {
		t.Fatalf("current question = %s, want q1 after retreat at start", q.ID)
	}
}

func TestAnswerValidatesQuestionAndOption(t *testing.T) {
	s := startedSession(t)
	if err := s.Answer("q99", "whatever"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("unknown question = %v, want ErrUnknownQuestion", err)
	}
	if err := s.Answer("q1", "Not an option"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("unknown option = %v, want ErrUnknownOption", err)
	}
	if err := s.Answer("q1", "In development"); err != nil {
		t.Fatalf("valid answer: %v", err)
	}
}

func TestFullWalkthroughScoresSession(t *testing.T) {
	s := startedSession(t)
	for i, q := range Questions {
		wantProgress := float64(i) / float64(len(Questions))
		if got := s.ProgressFraction(); got != wantProgress {
			t.Fatalf("progress at question %d = %v, want %v", i, got, wantProgress)
		}
		if err := s.Answer(q.ID, q.Options[3]); err != nil {
			t.Fatalf("answer %s: %v", q.ID, err)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("advance after %s: %v", q.ID, err)
		}
	}
	if s.Step() != StepScored {
		t.Fatalf("step = %s, want scored", s.Step())
	}
	if s.ProgressFraction() != 1 {
		t.Fatalf("progress = %v, want 1", s.ProgressFraction())
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.OverallScore != 75 || res.Level.Label != "AI Leader" {
		t.Fatalf("result = %d/%s, want 75/AI Leader", res.OverallScore, res.Level.Label)
	}
}

func TestRetreatAllowsRevisingAnswers(t *testing.T) {
	s := startedSession(t)
	if err := s.Answer("q1", "No formal strategy"); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	s.Retreat()
	if err := s.Answer("q1", "Fully implemented and integrated"); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	q, _ := s.CurrentQuestion()
	if q.ID != "q2" {
		t.Fatalf("current question = %s, want q2", q.ID)
	}
}

func TestReportTransitions(t *testing.T) {
	s := startedSession(t)
	if err := s.BeginReport(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("begin report before scoring = %v, want ErrWrongStep", err)
	}
	for _, q := range Questions {
		if err := s.Answer(q.ID, q.Options[0]); err != nil {
			t.Fatal(err)
		}
		if err := s.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.BeginReport(); err != nil {
		t.Fatalf("begin report: %v", err)
	}
	if s.Step() != StepReportPending {
		t.Fatalf("step = %s, want report-pending", s.Step())
	}
	if err := s.CompleteReport(); err != nil {
		t.Fatalf("complete report: %v", err)
	}
	if s.Step() != StepReportReady {
		t.Fatalf("step = %s, want report-ready", s.Step())
	}
}
