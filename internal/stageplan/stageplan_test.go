package stageplan

import (
	"strings"
	"testing"

	"github.com/chmocker/chmocker/internal/recipe"
)

func parse(t *testing.T, text string) []recipe.Instruction {
	t.Helper()
	instructions, err := recipe.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("recipe.Parse() error = %v", err)
	}
	return instructions
}

func TestPlanSingleAnonymousStage(t *testing.T) {
	stages, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(stages) != 1 {
		t.Fatalf("len(stages) = %d, want 1", len(stages))
	}
	s := stages[0]
	if s.BaseRef != "base" {
		t.Fatalf("BaseRef = %q, want base", s.BaseRef)
	}
	if s.StageName != "" {
		t.Fatalf("StageName = %q, want empty", s.StageName)
	}
	if !s.IsLast {
		t.Fatal("IsLast = false, want true")
	}
	if len(s.Instructions) != 2 {
		t.Fatalf("len(Instructions) = %d, want 2", len(s.Instructions))
	}
}

func TestPlanNamedStage(t *testing.T) {
	stages, err := Plan(parse(t, "FROM base AS builder\nRUN make\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if stages[0].StageName != "builder" {
		t.Fatalf("StageName = %q, want builder", stages[0].StageName)
	}
}

func TestPlanMultiStageBoundaries(t *testing.T) {
	recipeText := "FROM base AS s1\nRUN true\nFROM base\nCOPY --from=s1 / /\n"
	stages, err := Plan(parse(t, recipeText))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2", len(stages))
	}
	if stages[0].IsLast {
		t.Fatal("stages[0].IsLast = true, want false")
	}
	if !stages[1].IsLast {
		t.Fatal("stages[1].IsLast = false, want true")
	}
	if stages[0].StageName != "s1" {
		t.Fatalf("stages[0].StageName = %q, want s1", stages[0].StageName)
	}
	if stages[1].StageName != "" {
		t.Fatalf("stages[1].StageName = %q, want empty", stages[1].StageName)
	}
}

func TestPlanNoFromIsError(t *testing.T) {
	_, err := Plan(parse(t, "RUN echo hi\n"))
	if err == nil {
		t.Fatal("Plan() with no FROM returned nil error, want ErrNoBase")
	}
}

func TestPlanCommentsParticipateInHash(t *testing.T) {
	a, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	b, err := Plan(parse(t, "FROM base\n# a new comment\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if a[0].Hash == b[0].Hash {
		t.Fatal("adding a comment did not change the stage hash")
	}
}

func TestPlanCommentsDoNotAffectBoundaries(t *testing.T) {
	a, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	b, err := Plan(parse(t, "FROM base\n# comment\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("len(a) = %d, len(b) = %d, want equal", len(a), len(b))
	}
}

func TestPlanWhitespaceChangePerturbsHash(t *testing.T) {
	a, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	b, err := Plan(parse(t, "FROM base\nRUN echo  hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if a[0].Hash == b[0].Hash {
		t.Fatal("doubling a space did not change the stage hash")
	}
}

func TestPlanIdenticalContentIdenticalHash(t *testing.T) {
	a, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	b, err := Plan(parse(t, "FROM base\nRUN echo hi\n"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if a[0].Hash != b[0].Hash {
		t.Fatal("byte-identical stage text produced different hashes")
	}
}
