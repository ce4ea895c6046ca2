/*
Package ports defines the driven ports (interfaces) used by the scope subsystems.

These interfaces decouple critical sections from the mechanism that provides
exclusion, so the same section code runs against an in-process locker in tests
and a Redis locker across replicas.

# Key Interfaces

  - Locker: acquires a keyed lock and hands back the UnlockFunc that releases it.
*/
package ports
