package comparator

import "errors"

// Errors returned by the comparison engines and the codec adapter.
var (
	ErrDimensionMismatch        = errors.New("comparator: image dimensions differ")
	ErrUnsupportedChannelLayout = errors.New("comparator: unsupported channel layout")
	ErrBufferSize               = errors.New("comparator: sample count does not match dimensions")
	ErrDecode                   = errors.New("comparator: decode failed")
	ErrEncode                   = errors.New("comparator: encode failed")
)
