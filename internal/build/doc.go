// Walks planned stages, decides build-vs-reuse per the cache rules, and
// materialises the stages that miss.
//
// Grounded on the teacher's internal/build/recipe.go orchestration shape
// (an Options/Result pair and a driver struct that walks stages) and the
// original's build/build_stage cache decision tree — collapsed, per the
// design notes, into a single resolve(stage) -> action function instead of
// the original's three duplicated branches.
package build
