// Package hcl loads pipeline definitions written in HCL into the
// format-agnostic config.Model.
//
// A pipeline is any number of .hcl files containing `task` blocks and at most
// one `pipeline` settings block. Argument expressions are evaluated once, at
// load time, against an eval context exposing `env.<NAME>` and a small set of
// string and collection functions.
package hcl
