// Package fsstore implements the filesystem reference adapter: a flat-file
// datastore that keeps every value in its own file below a root directory.
//
// Layout:
//
//	root/<namespace>/<namespace>/.../<last namespace><suffix>
//
// where every ':' of a key becomes its own directory level. Storing
//
//	/Comedy/MontyPython/Actor:JohnCleese
//	/Comedy/MontyPython/Sketch:CheeseShop
//	/Comedy/MontyPython/Sketch:CheeseShop/Character:Mousebender
//
// yields
//
//	root/Comedy/MontyPython/Actor/JohnCleese.obj
//	root/Comedy/MontyPython/Sketch/CheeseShop.obj
//	root/Comedy/MontyPython/Sketch/CheeseShop/Character/Mousebender.obj
//
// A query lists exactly one directory: a query for /Comedy/MontyPython/Sketch
// returns CheeseShop but not Mousebender.
//
// The store holds bytes. Wrap it in a serializer shim to store other values.
package fsstore
