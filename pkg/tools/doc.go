// Package tools holds the executor's tool registry and the tools it ships.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/pairloop/pkg/tools/toolbox]: Tool type and ToolBox registry for registering, dispatching, and calling tools
//   - [github.com/germanamz/pairloop/pkg/tools/calculator]: arithmetic tool
//   - [github.com/germanamz/pairloop/pkg/tools/email]: email tool with Resend delivery and optional body formatting
//   - [github.com/germanamz/pairloop/pkg/tools/builtin]: the closed set of typed tool variants and their JSON Schemas
//   - [github.com/germanamz/pairloop/pkg/tools/mcpserver]: MCP server exposing a ToolBox over the official MCP Go SDK
//
// The toolbox sub-package is the foundation layer; every other package
// depends on it and none of them depend on each other except builtin.
package tools
