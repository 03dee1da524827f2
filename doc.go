// Package constmodel defines in-memory collections of named, multi-attribute
// constants: enumerations whose members carry one value per declared field
// and are queryable by attribute.
//
// A model is built once, at program start, from explicit declarations:
//
//	animals := constmodel.MustNew("Animal",
//		constmodel.Fields("name", "flies"),
//		constmodel.Declare("DOG", "Dog", false),
//		constmodel.Declare("BIRD", "Bird", true),
//	)
//
//	birds := constmodel.MustNew("Bird",
//		constmodel.Extends(animals),
//		constmodel.Declare("EAGLE", "Eagle", true),
//	)
//
// A model that extends another does not inherit its ancestor's members, but
// every member it declares becomes visible through the ancestor's member set
// and indexes, recursively up the hierarchy: animals.All() above yields DOG,
// BIRD and EAGLE, while birds.All() yields only EAGLE. A member always
// reports the model that declared it.
//
// Queries are flat AND-equality lookups answered through per-field secondary
// indexes with an exact-match verification pass, degrading to a linear scan
// for declared but unindexed fields:
//
//	eagle, err := animals.Get(constmodel.C{"name": "Eagle"})
//	fliers, err := animals.Filter(constmodel.C{"flies": true})
//	names, err := animals.All().Flat("name")
//
// Models and their indexes are read-only after construction and safe for
// concurrent readers. Construction itself is serialized internally, so models
// may also be defined lazily after startup.
package constmodel
