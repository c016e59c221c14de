package assessment

import (
	"errors"
	"fmt"
	"strings"
)

// CompanyInfo is the intake data collected before the questionnaire starts.
type CompanyInfo struct {
	Industry   string `json:"industry"`
	Country    string `json:"country"`
	CompanyURL string `json:"companyUrl"`
}

// Step identifies where a session is in the linear assessment flow.
type Step string

const (
	StepIntake        Step = "intake"
	StepQuestioning   Step = "questioning"
	StepScored        Step = "scored"
	StepReportPending Step = "report-pending"
	StepReportReady   Step = "report-ready"
)

var (
	ErrWrongStep       = errors.New("operation not valid in current step")
	ErrMissingCompany  = errors.New("industry, country, and company URL are required")
	ErrUnanswered      = errors.New("current question is unanswered")
	ErrUnknownQuestion = errors.New("unknown question id")
	ErrUnknownOption   = errors.New("option is not one of the question's choices")
)

// Session walks a respondent through intake, the ten questions, scoring, and
// report generation. State is per-client; the server never shares sessions.
type Session struct {
	step    Step
	company CompanyInfo
	index   int
	answers map[string]string
	result  Result
}

func NewSession() *Session {
	return &Session{step: StepIntake, answers: map[string]string{}}
}

func (s *Session) Step() Step { return s.step }

// SetCompanyInfo validates intake fields and moves the session to the first
// question. All three fields must be non-empty.
func (s *Session) SetCompanyInfo(info CompanyInfo) error {
	if s.step != StepIntake {
		return ErrWrongStep
	}
	if strings.TrimSpace(info.Industry) == "" ||
		strings.TrimSpace(info.Country) == "" ||
		strings.TrimSpace(info.CompanyURL) == "" {
		return ErrMissingCompany
	}
	s.company = info
	s.step = StepQuestioning
	s.index = 0
	return nil
}

func (s *Session) CompanyInfo() CompanyInfo { return s.company }

func (s *Session) CurrentQuestion() (Question, error) {
	if s.step != StepQuestioning {
		return Question{}, ErrWrongStep
	}
	return Questions[s.index], nil
}

// Answer records the selected option for a question. The question must exist
// and the option must be one of its four choices.
func (s *Session) Answer(questionID, option string) error {
	if s.step != StepQuestioning {
		return ErrWrongStep
	}
	q, ok := QuestionByID(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	for _, o := range q.Options {
		if o == option {
			s.answers[questionID] = option
			return nil
		}
	}
	return fmt.Errorf("%w: %q for %s", ErrUnknownOption, option, questionID)
}

// Advance moves to the next question. It is rejected while the current
// question is unanswered, so no question can be skipped. Advancing past the
// last question scores the session instead of moving further.
func (s *Session) Advance() error {
	if s.step != StepQuestioning {
		return ErrWrongStep
	}
	current := Questions[s.index]
	if _, ok := s.answers[current.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnanswered, current.ID)
	}
	if s.index < len(Questions)-1 {
		s.index++
		return nil
	}
	result, err := Score(s.answers)
	if err != nil {
		return err
	}
	s.result = result
	s.step = StepScored
	return nil
}

// Retreat moves back one question. At the first question it is a no-op.
func (s *Session) Retreat() {
	if s.step != StepQuestioning {
		return
	}
	if s.index > 0 {
		s.index--
	}
}

// ProgressFraction reports answered progress through the questionnaire in
// [0, 1]. Intake counts as zero; a scored session counts as one.
func (s *Session) ProgressFraction() float64 {
	switch s.step {
	case StepIntake:
		return 0
	case StepQuestioning:
		return float64(s.index) / float64(len(Questions))
	default:
		return 1
	}
}

// Result returns the computed scores once the session has advanced past the
// last question.
func (s *Session) Result() (Result, error) {
	if s.step == StepIntake || s.step == StepQuestioning {
		return Result{}, ErrWrongStep
	}
	return s.result, nil
}

// BeginReport marks the session as waiting on report generation.
func (s *Session) BeginReport() error {
	if s.step != StepScored {
		return ErrWrongStep
	}
	s.step = StepReportPending
	return nil
}

// CompleteReport marks report generation as finished.
func (s *Session) CompleteReport() error {
	if s.step != StepReportPending {
		return ErrWrongStep
	}
	s.step = StepReportReady
	return nil
}
