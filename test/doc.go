// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() function compares two values of the same comparable
// type and is the most commonly used function. ExpectSuccess() and
// ExpectFailure() test a value for the 'success' or 'failure' condition
// suitable for the type of the value. The Demand*() family of functions are
// the same except that a failure is fatal to the test.
//
// The optional tags argument to all functions is used to identify the failing
// test in the output. Useful when a test is run in a loop.
package test
