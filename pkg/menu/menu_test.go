package menu

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}

func TestRotation(t *testing.T) {
	tests := []struct {
		last     Token
		expected []string
	}{
		{Run3, []string{"4", "5", "6", "7", "C", "1", "2", "3"}},
		{Idle, []string{"1", "2", "3", "4", "5", "6", "7", "C"}},
		{Run7, []string{"C", "1", "2", "3", "4", "5", "6", "7"}},
		{Run1, []string{"2", "3", "4", "5", "6", "7", "C", "1"}},
	}

	for _, tt := range tests {
		got := labels(Rotation(tt.last))
		assert.Equal(t, tt.expected, got, "Rotation(%s)", tt.last)
	}
}

func TestRotation_AlwaysContainsIdle(t *testing.T) {
	for _, last := range Order {
		assert.Contains(t, Rotation(last), Idle)
		assert.Len(t, Rotation(last), len(Order))
	}
}

func TestParseToken(t *testing.T) {
	for _, tok := range Order {
		got, err := ParseToken(tok.String())
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	}
	_, err := ParseToken("8")
	assert.Error(t, err)
	assert.Equal(t, 7, Run7.Run())
	assert.Equal(t, 0, Idle.Run())
}

// scripted answers prompts from a fixed list and records what it was shown.
type scripted struct {
	answers []Token
	shown   [][]Token
}

func (s *scripted) Prompt(ctx context.Context, options []Token) (Token, error) {
	s.shown = append(s.shown, options)
	if len(s.answers) == 0 {
		return 0, io.EOF
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

type recorder struct {
	runs     []int
	cleanups int
	fail     error
}

func (r *recorder) Run(ctx context.Context, number int) error {
	r.runs = append(r.runs, number)
	return r.fail
}

func (r *recorder) Cleanup(ctx context.Context) error {
	r.cleanups++
	return nil
}

func TestNavigator_RunUpdatesLast(t *testing.T) {
	p := &scripted{answers: []Token{Run3}}
	n := NewNavigator(p, nil)
	d := &recorder{}

	choice, err := n.Step(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, Run3, choice)
	assert.Equal(t, []int{3}, d.runs)
	assert.Equal(t, Run3, n.Last())
	assert.Equal(t, []string{"4", "5", "6", "7", "C", "1", "2", "3"}, labels(n.Options()))
}

func TestNavigator_IdleCleansAndKeepsLast(t *testing.T) {
	p := &scripted{answers: []Token{Run2, Idle}}
	n := NewNavigator(p, nil)
	d := &recorder{}

	_, err := n.Step(context.Background(), d)
	require.NoError(t, err)
	_, err = n.Step(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, d.cleanups)
	assert.Equal(t, []int{2}, d.runs)
	assert.Equal(t, Run2, n.Last())
	assert.Equal(t, labels(p.shown[0]), []string{"1", "2", "3", "4", "5", "6", "7", "C"})
	assert.Equal(t, labels(p.shown[1]), []string{"3", "4", "5", "6", "7", "C", "1", "2"})
}

func TestNavigator_FailedRunStillSelected(t *testing.T) {
	p := &scripted{answers: []Token{Run4}}
	n := NewNavigator(p, nil)
	d := &recorder{fail: errors.New("stalled drive")}

	_, err := n.Step(context.Background(), d)
	assert.Error(t, err)
	assert.Equal(t, Run4, n.Last())
	assert.Equal(t, []string{"5", "6", "7", "C", "1", "2", "3", "4"}, labels(n.Options()))
}

func TestNavigator_Serve(t *testing.T) {
	p := &scripted{answers: []Token{Run1, Run2, Idle, Run3}}
	n := NewNavigator(p, nil)
	d := &recorder{}

	err := n.Serve(context.Background(), d)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []int{1, 2, 3}, d.runs)
	assert.Equal(t, 1, d.cleanups)
	assert.Len(t, p.shown, 5)
}

func TestNavigator_ServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewNavigator(&scripted{answers: []Token{Run1}}, nil)
	d := &recorder{}

	assert.ErrorIs(t, n.Serve(ctx, d), context.Canceled)
	assert.Empty(t, d.runs)
}
