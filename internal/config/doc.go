// Package config defines the engine configuration file and its defaults.
//
// The file is TOML. Every key is optional; a missing key keeps its built-in
// default, and command-line flags override both.
//
//	[engine]
//	workers = 4
//
//	[output]
//	path  = "ring.py"
//	title = "Ring resonator"
//
//	[logging]
//	level  = "debug"
//	format = "text"
//
//	[server]
//	status_port = 8080
//
//	[watch]
//	debounce = "250ms"
//
//	[notify]
//	url       = "http://localhost:3000/socket.io/"
//	namespace = "/meep"
//	timeout   = "5s"
package config
