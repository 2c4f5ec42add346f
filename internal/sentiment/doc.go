// Package sentiment implements text polarity classification.
//
// The Service wraps an inference backend with lazy, single-flight
// initialization: the first Analyze call (or an explicit Warmup) starts one
// warm-up attempt, concurrent callers share its outcome, and a failed attempt
// may be retried by a later call. Backends: in-process lexicon scorer,
// HuggingFace inference endpoint, OpenAI chat completion.
package sentiment
