// Package optree implements the Operation Tree: an order-statistic
// red-black tree that records pending positional edits (insert, set,
// remove) against a sequence, keyed by the index the caller currently
// observes rather than by any stable identity.
//
// Two lazy augmentations ride along every node: a subtree key shift,
// used to translate whole subtrees of keys without touching every node
// individually, and a subtree index balance, the net change in
// sequence length contributed by the pending edits in that subtree.
// A node may additionally fuse up to two colocated operations into a
// single slot (see fuse in fuse.go).
//
// The tree never touches a backing array; it only ever produces an
// ordered stream of operations (Drain) for a caller to apply to one.
package optree
