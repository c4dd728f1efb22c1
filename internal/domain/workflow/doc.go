// Package workflow holds the approval decision logic: building the frozen
// approver sequence of an expense, gating who may act on it, and deciding the
// next state when a decision arrives. It performs no I/O; callers load and
// persist state.
package workflow
