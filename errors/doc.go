/*
Package errors implements the error kinds shared by all htlc packages.

Reuse the errors declared in this package whenever possible and declare a
custom package error only when it carries meaning that callers must be able to
distinguish. Custom errors are declared with Register(code, description); each
code can be used only once.

Create error instances with ErrXyz.New("...") or Wrap(err, "...") at the
point of failure so that a stacktrace is attached. Only the innermost wrap
records the stacktrace.

Once you have an error, you can use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

Use ErrXyz.Is(err) to test for an error kind. It unwraps the error chain.
*/
package errors
