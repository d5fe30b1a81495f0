// SPDX-License-Identifier: MPL-2.0

// Package binaries defines the closed set of installable Mysten Labs
// binaries and the specifier grammar that resolves user input such as
// "sui@testnet-1.39.3" into a typed binary/network/version triple.
package binaries
