// Package detect implements the core debris detection pipeline: a
// per-pixel median background model, positive-residual computation, a
// robust median/MAD threshold, and shape-based classification of the
// resulting connected regions into stars and debris streaks.
//
// All stages are pure, synchronous computations over in-memory grids.
// Frame acquisition and persistence live elsewhere; the pipeline only
// consumes same-resolution grayscale frames and produces detection
// records for debris objects.
package detect
