// Package pintype parses and emits the compact textual form of a pin type.
//
// # Grammar
//
// A pin type is a category with an optional sub-type, optionally wrapped in
// a container and optionally followed by a reference marker:
//
//	PinType   := [Container] Base [Ref]
//	Container := "Array<" Elem ">" | "Set<" Elem ">" | "Map<" Elem "," Elem ">"
//	Elem      := Container | Base
//	Base      := Category [ ":" SubType ]
//	Ref       := "&"
//
// Container elements may themselves be containers, so "Map<int,Array<string>>"
// is accepted and round-trips. The text is whitespace-free.
//
// # Examples
//
//	bool
//	object:/Script/Engine.Actor
//	Array<struct:/Script/CoreUObject.Vector>
//	Map<name,int>&
//
// [Parse] and [Type.String] are inverses for every valid type:
// Parse(t.String()) returns a type equal to t.
package pintype
