/*
Package section implements keyed critical sections on top of package scope.

A Manager hands out one section per key at a time. Entering a section takes a
reference-counted local mutex and, when a ports.Locker is configured, a lock
shared across replicas (for example Redis). Leaving it releases both, in reverse
order, exactly once, whether the body falls through, breaks or returns.
*/
package section
