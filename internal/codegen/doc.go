// Package codegen turns a scene snapshot into the code blocks of a Meep
// Python script. There is one pure generator per section; each reads only
// the snapshot it is given and either returns a complete block or a
// *GenerationError.
//
// Every optional keyword argument is compared against the defaults package
// and left out when it equals its default. Centers are always written.
package codegen
