package stageplan

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/chmocker/chmocker/internal/recipe"
)

// A contiguous run of recipe instructions beginning with FROM.
//
// Hash depends only on ContentText, the concatenation of every
// instruction's raw line (including comments) in source order; it is
// otherwise insensitive to timestamps, environment, or base-image
// contents.
type Stage struct {
	BaseRef      string
	StageName    string
	Instructions []recipe.Instruction
	ContentText  string
	Hash         string
	IsLast       bool
}

// Slices instructions into stages at FROM boundaries. Fails with ErrNoBase
// if the recipe contains no FROM instruction at all.
func Plan(instructions []recipe.Instruction) ([]Stage, error) {
	var stages []Stage
	var baseRef, stageName string
	var curInstructions []recipe.Instruction
	var curContent strings.Builder

	sawFrom := false
	sinceFlush := false

	flush := func() {
		text := curContent.String()
		stages = append(stages, Stage{
			BaseRef:      baseRef,
			StageName:    stageName,
			Instructions: curInstructions,
			ContentText:  text,
			Hash:         hashHex(text),
		})
	}

	for _, instr := range instructions {
		if instr.Op == "FROM" {
			if sinceFlush {
				flush()
				curInstructions = nil
				curContent.Reset()
				sinceFlush = false
			}
			baseRef, stageName = parseFrom(instr.Value)
			sawFrom = true
		}

		if instr.Op != "COMMENT" {
			sinceFlush = true
		}

		curInstructions = append(curInstructions, instr)
		curContent.WriteString(instr.RawLine)
		curContent.WriteString("\n")
	}

	if !sawFrom {
		return nil, ErrNoBase
	}

	flush()
	stages[len(stages)-1].IsLast = true
	return stages, nil
}

// Parses "<image>[ AS <name>]" into the base image reference and the
// optional stage name.
func parseFrom(value string) (baseRef, stageName string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", ""
	}
	baseRef = fields[0]

	for i := 1; i < len(fields)-1; i++ {
		if strings.EqualFold(fields[i], "AS") {
			stageName = fields[i+1]
			break
		}
	}
	return baseRef, stageName
}

func hashHex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
