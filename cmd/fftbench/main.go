// Command fftbench times the registered fftexec backends on one-dimensional
// transforms and on the STFT driver.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	fftexec "github.com/cwbudde/algo-fftexec"
	_ "github.com/cwbudde/algo-fftexec/backend/dspfft"
	_ "github.com/cwbudde/algo-fftexec/backend/gonumfft"
	"github.com/cwbudde/algo-fftexec/internal/cpu"
)

const modeSTFT = "stft"

var benchModes = []string{"c2c", "r2c", "roundtrip", modeSTFT}

type benchResult struct {
	backend string
	nsPerOp float64
	bytes   uint64 // caller buffers touched per operation
}

func main() {
	var (
		backendList = flag.String("backends", "all", "comma-separated backend names, or all")
		sizeList    = flag.String("sizes", "256,1024,4096,6000", "comma-separated transform sizes")
		iters       = flag.Int("iters", 50, "benchmark iterations")
		warmup      = flag.Int("warmup", 5, "warmup iterations")
		mode        = flag.String("mode", "c2c", "benchmark mode: c2c, r2c, roundtrip, stft, all")
		batch       = flag.Int("batch", 8, "stft batch size")
		frames      = flag.Int("frames", 16, "stft frame count")
		workers     = flag.Int("workers", runtime.GOMAXPROCS(0), "stft workers")
		precision   = flag.String("precision", "single", "c2c precision: single or double")
		seed        = flag.Int64("seed", 1, "rng seed")
	)

	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	sizes, err := parseSizes(*sizeList)
	if err != nil {
		klog.Exitf("-sizes: %v", err)
	}

	if len(sizes) == 0 {
		klog.Exitf("no sizes specified")
	}

	modes, err := resolveModes(*mode)
	if err != nil {
		klog.Exitf("-mode: %v", err)
	}

	names := resolveBackends(*backendList)
	if len(names) == 0 {
		klog.Exitf("no backends match %q (registered: %s)", *backendList, strings.Join(fftexec.Backends(), ","))
	}

	rnd := rand.New(rand.NewSource(*seed))
	opts := fftexec.StreamOptions{Workers: *workers}

	fmt.Printf("cpu: %s\n", cpu.DetectFeatures())
	fmt.Printf("iters=%d warmup=%d workers=%d\n", *iters, *warmup, *workers)
	fmt.Printf("%8s  %10s  %10s  %12s  %10s\n", "size", "mode", "backend", "ns/op", "buffers")

	for _, n := range sizes {
		for _, runMode := range modes {
			cfg := benchConfig{
				n: n, iters: *iters, warmup: *warmup,
				batch: *batch, frames: *frames,
				mode: runMode, double: *precision == "double",
			}

			results := make([]benchResult, 0, len(names))

			for _, name := range names {
				res, err := benchmarkBackend(rnd, name, opts, cfg)
				if err != nil {
					klog.Errorf("%s %s n=%d: %v", name, runMode, n, err)
					continue
				}

				results = append(results, res)
			}

			sort.Slice(results, func(i, j int) bool {
				return results[i].nsPerOp < results[j].nsPerOp
			})

			for _, res := range results {
				fmt.Printf("%8s  %10s  %10s  %12.1f  %10s\n",
					humanize.Comma(int64(n)), runMode, res.backend, res.nsPerOp, humanize.IBytes(res.bytes))
			}
		}
	}
}

type benchConfig struct {
	n, iters, warmup int
	batch, frames    int
	mode             string
	double           bool
}

func benchmarkBackend(rnd *rand.Rand, name string, opts fftexec.StreamOptions, cfg benchConfig) (benchResult, error) {
	backend, err := fftexec.Lookup(name)
	if err != nil {
		return benchResult{}, err
	}

	stream, err := fftexec.NewStream(backend, opts)
	if err != nil {
		return benchResult{}, err
	}

	run, bytes, err := newRunner(rnd, stream, cfg)
	if err != nil {
		return benchResult{}, err
	}

	for range cfg.warmup {
		if err := run(); err != nil {
			return benchResult{}, err
		}
	}

	runtime.GC()

	timer := cpu.StartTimer()

	for range cfg.iters {
		if err := run(); err != nil {
			return benchResult{}, err
		}

		timer.Add(1)
	}

	return benchResult{backend: name, nsPerOp: timer.NanosPerOp(), bytes: bytes}, nil
}

// newRunner prepares buffers for one benchmark mode and returns a closure
// that performs a single measured operation, along with the number of buffer
// bytes that operation reads and writes.
func newRunner(rnd *rand.Rand, stream *fftexec.Stream, cfg benchConfig) (func() error, uint64, error) {
	n := cfg.n
	m := fftexec.HermitianSize(n)
	axes := fftexec.Axes{0}
	full := fftexec.ContiguousLayout(fftexec.Shape{n})
	half := fftexec.ContiguousLayout(fftexec.Shape{m})

	switch cfg.mode {
	case "c2c":
		if cfg.double {
			return c2cRunner[complex128](rnd, stream, n), uint64(2 * n * 16), nil
		}

		return c2cRunner[complex64](rnd, stream, n), uint64(2 * n * 8), nil
	case "r2c", "roundtrip":
		src := make([]float64, n)
		for i := range src {
			src[i] = rnd.Float64()
		}

		freq := make([]complex128, m)
		back := make([]float64, n)

		bytes := uint64(n*8 + m*16)
		if cfg.mode == "roundtrip" {
			bytes *= 2
		}

		return func() error {
			err := fftexec.R2C(stream, src, freq, full, half, true, axes, fftexec.NormNone)
			if err != nil || cfg.mode == "r2c" {
				return err
			}

			return fftexec.C2R(stream, freq, back, half, full, n, axes, fftexec.NormBySize)
		}, bytes, nil
	case modeSTFT:
		signals := make([][]float32, cfg.batch)
		for b := range signals {
			signals[b] = make([]float32, cfg.frames*n)
			for i := range signals[b] {
				signals[b][i] = rnd.Float32()*2 - 1
			}
		}

		framed := make([]float32, cfg.frames*cfg.batch*n)

		dims, err := fftexec.FrameSignals(framed, signals, n, n, nil)
		if err != nil {
			return nil, 0, err
		}

		out := make([]complex64, dims*cfg.batch*m)

		return func() error {
			return fftexec.STFT(stream, framed, out, dims, cfg.batch, n, fftexec.NormNone)
		}, uint64(len(framed)*4 + len(out)*8), nil
	default:
		return nil, 0, errors.Errorf("unknown mode %q", cfg.mode)
	}
}

func c2cRunner[C fftexec.Complex](rnd *rand.Rand, stream *fftexec.Stream, n int) func() error {
	layout := fftexec.ContiguousLayout(fftexec.Shape{n})
	src := make([]C, n)
	dst := make([]C, n)

	for i := range src {
		src[i] = C(complex(rnd.Float64(), rnd.Float64()))
	}

	return func() error {
		return fftexec.C2C(stream, src, dst, layout, layout, true, fftexec.Axes{0}, fftexec.NormNone)
	}
}

func resolveModes(mode string) ([]string, error) {
	if mode == "all" {
		return slices.Clone(benchModes), nil
	}

	if !slices.Contains(benchModes, mode) {
		return nil, errors.Errorf("unknown mode %q (want %s or all)", mode, strings.Join(benchModes, ", "))
	}

	return []string{mode}, nil
}

func resolveBackends(list string) []string {
	registered := fftexec.Backends()
	if list == "all" {
		return registered
	}

	var out []string

	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		for _, r := range registered {
			if r == name {
				out = append(out, name)
			}
		}
	}

	return out
}

// parseSizes reads a comma-separated list of transform lengths. Entries may
// carry the SI and IEC suffixes understood by humanize.ParseBytes, so "4KiB"
// is 4096 and "2k" is 2000.
func parseSizes(list string) ([]int, error) {
	var sizes []int

	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		n, err := humanize.ParseBytes(part)
		if err != nil {
			return nil, errors.Wrapf(err, "size %q", part)
		}

		if n == 0 || n > math.MaxInt32 {
			return nil, errors.Errorf("size %q out of range", part)
		}

		sizes = append(sizes, int(n))
	}

	return sizes, nil
}
