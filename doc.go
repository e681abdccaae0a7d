// Package menuopts registers trees of server-specific menu options and reads
// back the values each connected player reported for them.
//
// Options are identified two ways. Callers pick a string custom id ("Volume",
// "Color"); the settings wire protocol needs an int32. The Service asks an
// IdentifierRegistry (see pkg/registry) for the numeric id of every option it
// registers, so the same custom id maps to the same number across restarts.
//
// Data flow:
//
//	builder -> *OptionNode -> Service.Register -> Transport.Broadcast
//	transport value update -> Service.HandleValueReceived -> ValueReceiver
//	Service.GetStringValue/GetNumberValue/GetBooleanValue -> Transport.Setting
//
// Value reads are type checked. Every Option declares a ReturnableType fixed
// by its Kind; asking a Slider for a string fails with a TypeMismatchError
// rather than silently returning a zero value.
//
// Visibility predicates can be written as expressions (expr by default, CEL or
// JavaScript optionally) and compiled with Service.Rule.
package menuopts
