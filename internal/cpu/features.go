package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features reports the SIMD capabilities of the host CPU.
type Features struct {
	HasSSE2      bool
	HasSSE3      bool
	HasSSE41     bool
	HasAVX       bool
	HasAVX2      bool
	HasAVX512    bool
	HasFMA       bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasSSE3:      cpu.X86.HasSSE3,
		HasSSE41:     cpu.X86.HasSSE41,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512F,
		HasFMA:       cpu.X86.HasFMA,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// Names returns the detected features as short lowercase names, in a fixed order.
func (f Features) Names() []string {
	flags := []struct {
		ok   bool
		name string
	}{
		{f.HasSSE2, "sse2"},
		{f.HasSSE3, "sse3"},
		{f.HasSSE41, "sse4.1"},
		{f.HasAVX, "avx"},
		{f.HasAVX2, "avx2"},
		{f.HasAVX512, "avx512"},
		{f.HasFMA, "fma"},
		{f.HasNEON, "neon"},
	}

	var names []string

	for _, fl := range flags {
		if fl.ok {
			names = append(names, fl.name)
		}
	}

	return names
}

// String returns the architecture followed by the detected features.
func (f Features) String() string {
	s := f.Architecture
	for _, name := range f.Names() {
		s += " " + name
	}

	return s
}
