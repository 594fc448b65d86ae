package build

import (
	"github.com/chmocker/chmocker/internal/index"
	"github.com/chmocker/chmocker/internal/stageplan"
	"github.com/chmocker/chmocker/internal/store"
)

// Copying a built (or already-cached) tar under fromKey to toKey, and
// recording toKey -> hash in the index.
type promotion struct {
	fromKey string
	toKey   string
	hash    string
}

// What to do with one planned stage: build it under buildKey if needed,
// then apply zero or more promotions. A zero-value action with build=false
// and no promotions means "nothing to do, fully cached".
type action struct {
	build    bool
	buildKey string
	promote  []promotion
}

// Decides the action for stage, collapsing the three named/anonymous/final
// branches of the original cache decision tree into one function, per the
// rules of the build driver.
func resolve(stage stageplan.Stage, idx *index.Index, st *store.Store, resultTag string) action {
	switch {
	case stage.StageName == "" && !stage.IsLast:
		return resolveAnonymousNonFinal(stage, st)
	case stage.StageName != "":
		return resolveNamed(stage, idx, st, resultTag)
	default:
		return resolveAnonymousFinal(stage, idx, resultTag)
	}
}

func resolveAnonymousNonFinal(stage stageplan.Stage, st *store.Store) action {
	if st.ExistsTar(stage.Hash) {
		return action{}
	}
	return action{build: true, buildKey: stage.Hash}
}

func resolveNamed(stage stageplan.Stage, idx *index.Index, st *store.Store, resultTag string) action {
	entry, ok := idx.Get(stage.StageName)
	if ok && entry.Hash == stage.Hash && st.ExistsTar(stage.StageName) {
		a := action{}
		if stage.IsLast {
			a.promote = []promotion{{fromKey: stage.StageName, toKey: resultTag, hash: stage.Hash}}
		}
		return a
	}

	a := action{build: true, buildKey: stage.Hash}
	a.promote = append(a.promote, promotion{fromKey: stage.Hash, toKey: stage.StageName, hash: stage.Hash})
	if stage.IsLast {
		a.promote = append(a.promote, promotion{fromKey: stage.Hash, toKey: resultTag, hash: stage.Hash})
	}
	return a
}

func resolveAnonymousFinal(stage stageplan.Stage, idx *index.Index, resultTag string) action {
	entry, ok := idx.Get(resultTag)
	if ok && entry.Hash == stage.Hash {
		return action{}
	}
	return action{
		build:    true,
		buildKey: stage.Hash,
		promote:  []promotion{{fromKey: stage.Hash, toKey: resultTag, hash: stage.Hash}},
	}
}
