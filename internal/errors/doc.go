// Package errors provides the structured error type used across digidex.
//
// Every error carries a Code, a caller-facing Message, an optional Cause and
// free-form Meta. Codes line up with gRPC status codes so the transport layer
// can convert without guessing.
//
// Creating errors:
//
//	err := errors.NotFoundf("record %q not found", name)
//	err := errors.Unavailable("catalog page fetch failed").WithMeta("page", n)
//
// Wrapping keeps the original code unless one is given explicitly:
//
//	if err := store.Set(ctx, doc); err != nil {
//	    return errors.Wrap(err, "failed to push favorite")
//	}
//
// Resolution failures that are an expected outcome (a name that matches
// nothing) are not errors at all; see the resolver package.
//
// Config validation uses the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Client == nil {
//	    vb.RequiredField("Client")
//	}
//	return vb.Build()
package errors
