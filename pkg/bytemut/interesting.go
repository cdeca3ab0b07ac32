package bytemut

import "math"

// Boundary values that tend to trip length checks, sign handling and
// off-by-one arithmetic in parsers. Each wider table repeats the narrower
// ones so a width class never loses the small cases.
var (
	interesting8 = []int8{
		math.MinInt8, -1, 0, 1, 16, 32, 64, 100, math.MaxInt8,
	}

	interesting16 = []int16{
		math.MinInt8, -1, 0, 1, 16, 32, 64, 100, math.MaxInt8,
		math.MinInt16, -129, 128, 255, 256, 512, 1000, 1024, 4096, math.MaxInt16,
	}

	interesting32 = []int32{
		math.MinInt8, -1, 0, 1, 16, 32, 64, 100, math.MaxInt8,
		math.MinInt16, -129, 128, 255, 256, 512, 1000, 1024, 4096, math.MaxInt16,
		math.MinInt32, -100663046, -32769, 32768, 65535, 65536, 100663045, math.MaxInt32,
	}

	interesting64 = []int64{
		math.MinInt8, -1, 0, 1, 16, 32, 64, 100, math.MaxInt8,
		math.MinInt16, -129, 128, 255, 256, 512, 1000, 1024, 4096, math.MaxInt16,
		math.MinInt32, -100663046, -32769, 32768, 65535, 65536, 100663045, math.MaxInt32,
		math.MinInt64, -2147483649, 2147483648, 4294967295, 4294967296, math.MaxInt64,
	}
)
