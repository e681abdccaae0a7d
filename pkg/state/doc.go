// Package state holds the live per-player option values a transport
// receives, and a LocalTransport that delivers option nodes to in-process
// players.
//
// Responsibilities:
//   - Store only loads/saves one setting for one Ref.
//   - MemoryStore keeps settings keyed by Ref.Identifier() and implements
//     menuopts.ValueSource so a Service can read values back.
//   - LocalTransport implements menuopts.Transport on top of a MemoryStore
//     and forwards reported values to a receiver such as
//     Service.HandleValueReceived.
//
// Data flow:
//
//	player -> LocalTransport.Report -> Store.Save -> receiver
//	Service.GetStringValue -> Transport.Setting -> Store.Load
//
// Deterministic keys:
//
//	Ref.Identifier() is `player/<player-id>/<numeric-id>`.
package state
