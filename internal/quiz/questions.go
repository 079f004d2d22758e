package quiz

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"math/rand"
	"strings"
	"time"

	"trivia-app/internal/opentdb"
)

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type Question struct {
	QuestionID   string   `json:"question_id"`
	Question     string   `json:"question"`
	Category     string   `json:"category,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Options      []Option `json:"options"`
	CorrectIndex int      `json:"-"`
}

// CorrectText is the text of the right option, or "" if the index is bad.
func (q Question) CorrectText() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex].Text
}

// Rand is the part of *rand.Rand the builder needs. Shuffling is not
// cryptographic and does not need to be.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

type Builder struct {
	rnd Rand
}

// NewBuilder uses rnd for option order, or a time-seeded source when nil.
func NewBuilder(rnd Rand) *Builder {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{rnd: rnd}
}

func (b *Builder) BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question := b.buildQuestion(item)
		question.QuestionID = MakeQuestionID(question)
		questions = append(questions, question)
	}
	return questions
}

func MakeQuestionID(question Question) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(question.Question)
	for _, option := range question.Options {
		keyBuilder.WriteString("|")
		keyBuilder.WriteString(option.Text)
	}

	hash := sha1.Sum([]byte(keyBuilder.String()))
	return "q_" + hex.EncodeToString(hash[:6])
}

func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) != 1 {
		return ""
	}
	return letter
}

// LetterIndex maps "A".."Z" to 0..25, -1 otherwise.
func LetterIndex(answer string) int {
	letter := NormalizeLetter(answer)
	if letter == "" || letter[0] < 'A' || letter[0] > 'Z' {
		return -1
	}
	return int(letter[0] - 'A')
}

func (b *Builder) buildQuestion(raw opentdb.RawQuestion) Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{
			text:      html.UnescapeString(incorrect),
			isCorrect: false,
		})
	}

	choices = append(choices, choice{
		text:      html.UnescapeString(raw.CorrectAnswer),
		isCorrect: true,
	})

	b.rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]Option, len(choices))
	correctIndex := -1

	for idx, candidate := range choices {
		options[idx] = Option{
			Letter: string(rune('A' + idx)),
			Text:   candidate.text,
		}
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	return Question{
		Question:     html.UnescapeString(raw.Question),
		Category:     html.UnescapeString(raw.Category),
		Difficulty:   raw.Difficulty,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}
