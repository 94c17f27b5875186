// Package pipeline drives one generator run. A run is a fixed sequence of
// stages (detect, collect, resolve, write, install, finish) that each take the
// run Context by value and return an updated copy. Once a stage records an
// outcome every later stage passes the Context through untouched.
package pipeline
