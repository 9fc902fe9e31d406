// Package thinking implements a bounded iterative-refinement engine for
// AI-generated answers.
//
// # Overview
//
// An external agent works on a task over several rounds. Each round, the
// engine hands the agent a prompt, the agent replies with free text carrying
// a self-reported confidence, and the engine decides whether to stop or to
// generate the next refinement prompt. The engine itself never calls a model:
// it is a pure state machine over an explicit State value, which makes it
// trivially testable and lets the caller own persistence and transport.
//
// # Architecture
//
// Four pieces compose into a two-phase protocol (start, iterate):
//
//   - GeneratePrompt builds the next prompt from the task, the accumulated
//     state, and the session config. The first round gets an analysis prompt;
//     later rounds get refinement prompts that carry a compressed excerpt of
//     the previous answer.
//   - CompressInsights is a lossy keyword summarizer that bounds how much of
//     the previous answer is carried into the next prompt.
//   - HeuristicReadiness judges whether the latest answer looks like a
//     shippable solution (confidence, readiness vocabulary, minimum length).
//   - Engine.ProcessIteration orchestrates one round: parse confidence,
//     append to history, evaluate the stopping rules, and either emit the
//     next prompt or mark the session complete.
//
// Confidence extraction and the readiness check are pluggable strategies on
// Engine so a more principled classifier can replace the string heuristics
// without touching the state machine.
//
// # Stopping rules
//
// A session completes when any of the following fires:
//
//   - the readiness policy accepts the latest answer
//   - depth reaches MaxDepth
//   - parsed confidence reaches MinConfidence
//   - depth reaches MaxIterations (independent hard cap)
//
// Outcome.Reason records which rule fired, which is useful for tuning the
// thresholds against real agent transcripts.
//
// # Safety properties
//
// All functions are pure and synchronous. Prompts are bounded regardless of
// task or response length (task excerpts are truncated, compressed insights
// are capped at 500 characters). Unparsable confidence text degrades to a
// 0.5 default rather than failing; parsed values are clamped to [0,1].
package thinking
