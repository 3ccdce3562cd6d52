// Package validator evaluates declarative rule strings such as "required",
// "min(5)" or "matches(email)" against submitted form values.
//
// Rules are resolved up front by a Registry. Parse rejects unknown names and
// malformed parameters so configuration errors surface at load time rather
// than on a live request. Evaluation builds plain Rule values (a Check func
// plus a ValidationError) and runs them through Apply, which collects the
// failures in declaration order.
//
// Empty values (after trimming) skip every rule except required and checked.
//
// Messages may contain the placeholders {field}, {value}, {args} and {0},
// {1}, ... for individual parameters. A per-field override keyed by the bare
// rule name ("min", not "min(5)") replaces the built-in message.
package validator
