// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Codec: Encodes and decodes documents in one serialization format
//   - CodecRegistry: Selects the codec for an explicit format selector
//   - GeometryCodec: Text and binary geometry encodings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentStore: Local document catalog (SQLite). Without it, store commands are disabled.
//   - FileStore: Path-based read/write glue. Defaults to the local filesystem.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or serialization package
package driven
