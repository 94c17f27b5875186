// Package widget defines the configuration a widget project is generated
// from: the question sets asked of the operator, the shape of their answers,
// and the resolution of answers plus detected project state into a Config.
package widget
