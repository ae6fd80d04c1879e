// Package host provides the syscall capability the virtual machine runs
// against.
//
// Programs push a Code (0 read, 1 write, 2 open, 3 close) and its operands,
// and the engine forwards the call to a Syscalls implementation:
//
//   - OS calls the host kernel through golang.org/x/sys/unix.
//   - MemFS keeps files in memory with descriptors 0, 1 and 2 bound to
//     /dev/stdin, /dev/stdout and /dev/stderr. Closed descriptors are reused.
//
// Open flags follow the Linux numeric values on every platform.
package host
