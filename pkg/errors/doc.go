// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every failure path in the toolkit carries one of a fixed set of error codes
// so that callers running bulk operations can tell which stage failed:
// identifier validation, cluster resolution, or remote execution.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeRemoteCommandFailed,
//	    "failed to destroy guest",
//	    cause,
//	    map[string]interface{}{
//	        "exit_status": res.ExitCode,
//	        "node": nodeName,
//	    },
//	)
package errors
