// Package encoding provides the trace codecs that turn fixed-length sample
// vectors into fixed-size extent records and back.
//
// Every codec implements TraceCodec. The record size depends only on the sample
// count, so a trace family can address records by index without any per-record
// framing.
//
// # Built-in Implementations
//
//   - CompressedInt16Codec: lossy windowed fixed-point codec. Each window of up
//     to 100 samples shares one float32 scalar, and samples are stored as biased
//     unsigned 16-bit integers.
//   - Float32Codec: raw IEEE-754 single precision samples.
//
// # Usage
//
//	codec, err := encoding.NewTraceCodec(format.TraceCompressedInt16, 1500, endian.GetLittleEndianEngine())
//	if err != nil {
//	    return err
//	}
//	record, err := codec.Encode(samples)
//	...
//	decoded, err := codec.Decode(record, nil)
//
// # Thread Safety
//
// Codecs are immutable once constructed and safe for concurrent use.
package encoding
