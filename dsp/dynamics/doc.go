// Package dynamics implements the stereo-linked dynamics processors of
// the chain: a feed-forward hard-knee compressor and a brick-wall peak
// limiter. Both derive a single control signal from the channel pair so
// gain reduction never shifts the stereo image.
package dynamics
