// Package optic provides the plain value types shared by every lightpath
// package: component kinds, traversal roles, component specs and Gaussian
// beam parameters.
//
// This package contains type definitions only. All other internal packages
// import optic; optic imports nothing internal.
//
// Key design constraints:
//   - Traversal role is derived from Kind once, never from runtime type checks
//   - Port count is fixed by Role (Inline=2, Branching=4, Terminal=1)
//   - Names are NFC-normalized before they are used as keys
//   - All JSON and YAML tags use snake_case
package optic
