package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/floats"

	"github.com/ravraudio/dspcore/dsp/processor"
	"github.com/ravraudio/dspcore/dsp/spectrum"
)

// wavInput holds a validated WAV source and its format.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

func openWAVInput(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		_ = f.Close()

		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	format := dec.Format()
	if format.NumChannels < 1 || format.NumChannels > 2 {
		_ = f.Close()

		return nil, fmt.Errorf("unsupported channel count %d, want mono or stereo", format.NumChannels)
	}

	return &wavInput{
		file:     f,
		decoder:  dec,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(dec.BitDepth),
		format:   format,
	}, nil
}

func (w *wavInput) Close() error {
	return w.file.Close()
}

// processResult summarizes a completed run and carries mono copies of
// the input and output for the optional analysis pass.
type processResult struct {
	frames int
	blocks int

	inputMono  []float32
	outputMono []float32
}

// processFile streams the input through proc block by block and writes
// the processed audio to outPath at the input's rate and bit depth.
func processFile(in *wavInput, proc *processor.Processor, outPath string) (*processResult, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, in.rate, in.bitDepth, in.channels, 1)

	scale := pcmScale(in.bitDepth)
	readBuf := &audio.IntBuffer{
		Format:         in.format,
		Data:           make([]int, blockSize*in.channels),
		SourceBitDepth: in.bitDepth,
	}
	writeBuf := &audio.IntBuffer{
		Format:         in.format,
		SourceBitDepth: in.bitDepth,
	}

	inL := make([]float32, blockSize)
	inR := make([]float32, blockSize)
	outL := make([]float32, blockSize)
	outR := make([]float32, blockSize)

	result := &processResult{}

	for {
		n, err := in.decoder.PCMBuffer(readBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / in.channels
		if in.channels == 2 {
			deinterleave(readBuf.Data[:n], inL[:frames], inR[:frames], scale)
			proc.ProcessBlockStereo(inL[:frames], inR[:frames], outL[:frames], outR[:frames])
			interleave(readBuf.Data[:n], outL[:frames], outR[:frames], scale)
		} else {
			intsToFloats(readBuf.Data[:n], inL[:frames], scale)
			proc.ProcessBlock(inL[:frames], outL[:frames])
			floatsToInts(readBuf.Data[:n], outL[:frames], scale)
		}

		writeBuf.Data = readBuf.Data[:n]
		if err := enc.Write(writeBuf); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}

		result.inputMono = appendMono(result.inputMono, inL[:frames], inR[:frames], in.channels)
		result.outputMono = appendMono(result.outputMono, outL[:frames], outR[:frames], in.channels)
		result.frames += frames
		result.blocks++
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize output: %w", err)
	}

	return result, nil
}

// pcmScale returns the full-scale value for a signed PCM bit depth.
func pcmScale(bitDepth int) float32 {
	return float32(int(1)<<(bitDepth-1) - 1)
}

func intsToFloats(src []int, dst []float32, scale float32) {
	for i, v := range src {
		dst[i] = float32(v) / scale
	}
}

func floatsToInts(dst []int, src []float32, scale float32) {
	for i, v := range src {
		dst[i] = clampPCM(v, scale)
	}
}

func deinterleave(src []int, left, right []float32, scale float32) {
	for i := range left {
		left[i] = float32(src[2*i]) / scale
		right[i] = float32(src[2*i+1]) / scale
	}
}

func interleave(dst []int, left, right []float32, scale float32) {
	for i := range left {
		dst[2*i] = clampPCM(left[i], scale)
		dst[2*i+1] = clampPCM(right[i], scale)
	}
}

func clampPCM(v, scale float32) int {
	s := v * scale
	if s > scale {
		s = scale
	}
	if s < -scale {
		s = -scale
	}

	return int(math.Round(float64(s)))
}

func appendMono(dst, left, right []float32, channels int) []float32 {
	if channels == 1 {
		return append(dst, left...)
	}
	for i := range left {
		dst = append(dst, 0.5*(left[i]+right[i]))
	}

	return dst
}

// printAnalysis prints peak, RMS and dominant-frequency statistics for
// the input and output signals.
func printAnalysis(w io.Writer, rate int, input, output []float32) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "signal\tpeak (dBFS)\trms (dBFS)\tdominant (Hz)")

	for _, s := range []struct {
		name    string
		samples []float32
	}{
		{"input", input},
		{"output", output},
	} {
		peak, rms := levelStats(s.samples)
		freq, ok := dominantFrequency(s.samples, rate)
		freqStr := "-"
		if ok {
			freqStr = fmt.Sprintf("%.1f", freq)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\n", s.name, toDB(peak), toDB(rms), freqStr)
	}

	return tw.Flush()
}

// levelStats returns linear peak and RMS levels.
func levelStats(samples []float32) (peak, rms float64) {
	if len(samples) == 0 {
		return 0, 0
	}

	x := make([]float64, len(samples))
	for i, v := range samples {
		x[i] = float64(v)
		if a := math.Abs(x[i]); a > peak {
			peak = a
		}
	}
	rms = math.Sqrt(floats.Dot(x, x) / float64(len(x)))

	return peak, rms
}

// dominantFrequency estimates the strongest spectral component using
// the largest analyzable window that fits the signal.
func dominantFrequency(samples []float32, rate int) (float64, bool) {
	fftSize := 64
	for fftSize*2 <= len(samples) && fftSize < 4096 {
		fftSize *= 2
	}
	if fftSize > len(samples) {
		return 0, false
	}

	a, err := spectrum.New(fftSize, float32(rate))
	if err != nil {
		return 0, false
	}
	a.Push(samples)
	if _, err := a.Compute(); err != nil {
		return 0, false
	}

	return a.BinFrequency(a.PeakBin()), true
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
