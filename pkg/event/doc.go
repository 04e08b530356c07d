// Package event provides a synchronous, push-based event value and the
// combinators over it.
//
// An Event is not a stored collection. It is a producer: given a Subscriber
// it delivers zero or more items to it, synchronously, and returns. Nothing
// is ever delivered after that call returns, and every subscription replays
// the production logic from scratch.
//
//	evens := event.Filter(event.From([]int{1, 2, 3, 4}), func(n int) bool {
//		return n%2 == 0
//	})
//	evens.Subscribe(func(n int) { fmt.Println(n) }) // 2, 4
//
// # Combination
//
// Ap, SampleOn, Sample and Semigroup.Concat combine two producers inside a
// single subscription. Which side is subscribed first decides what the
// "latest value" slots hold when the other side fires: Ap drives the function
// side to completion before the value side, SampleOn and Sample drive the
// sampled value first. Those slots live only for one subscription.
//
// # Finite producers
//
// ToSlice, Reduce, ReduceRight, FoldMap, FilterMap, Partition, PartitionMap,
// Compact, Separate, Traverse and Sequence materialize their source, as do
// the producers returned by Fold, Count and Folded when subscribed. Feeding
// them a producer that never returns is a caller error; nothing detects it.
// Filter, Map, Chain, Alt, Ap and SampleOn stream and carry no such
// requirement.
//
// # Failure
//
// ThrowError, FromOption, FromEither, FromPredicate and FilterOrElse abort by
// panicking with a *ThrownError rather than delivering anything. Catch is the
// matching recover boundary.
package event
