// Package loggen fabricates the log-looking lines the stages print: wall-clock
// stamps, hex addresses and kernel ring-buffer messages.
package loggen

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Timestamp formats now as [HH:MM:SS.mmm].
func Timestamp(now time.Time) string {
	return now.Format("[15:04:05.000]")
}

// HexAddr returns a 64-bit address such as 0x00007f3a9c2e1b40.
func HexAddr(rng *rand.Rand) string {
	return fmt.Sprintf("0x%016x", rng.Uint64())
}

// Hex returns n lowercase hex digits.
func Hex(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte("0123456789abcdef"[rng.IntN(16)])
	}
	return b.String()
}

// Reader adapts rng to io.Reader so seeded runs produce stable identifiers.
func Reader(rng *rand.Rand) io.Reader {
	return randReader{rng}
}

type randReader struct{ rng *rand.Rand }

func (r randReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// UUID returns a version 4 UUID drawn from rng.
func UUID(rng *rand.Rand) uuid.UUID {
	id, err := uuid.NewRandomFromReader(Reader(rng))
	if err != nil {
		// randReader never fails.
		return uuid.Nil
	}
	return id
}

var kernelMessages = []string{
	"Initializing cgroup subsys cpuset",
	"Initializing cgroup subsys cpu",
	"Linux version 5.4.0-42-generic (buildd@lgw01-amd64-038)",
	"Command line: BOOT_IMAGE=/boot/vmlinuz-5.4.0-42-generic root=UUID=%s ro quiet splash",
	"KERNEL supported cpus: Intel GenuineIntel AMD AuthenticAMD",
	"x86/fpu: Supporting XSAVE feature 0x001: 'x87 floating point registers'",
	"x86/fpu: Supporting XSAVE feature 0x002: 'SSE registers'",
	"x86/fpu: Supporting XSAVE feature 0x004: 'AVX registers'",
	"BIOS-provided physical RAM map:",
	"BIOS-e820: [mem 0x0000000000000000-0x000000000009fbff] usable",
	"NX (Execute Disable) protection: active",
	"SMBIOS 3.0.0 present.",
	"DMI: System manufacturer System Product Name/PRIME Z390-A",
	"tsc: Detected 3600.000 MHz processor",
	"e820: update [mem 0x00000000-0x00000fff] usable ==> reserved",
	"last_pfn = 0x47f000 max_arch_pfn = 0x400000000",
	"MTRR default type: write-back",
	"found SMP MP-table at [mem 0x000fcd80-0x000fcd8f]",
	"ACPI: Early table checksum verification disabled",
	"ACPI: RSDP 0x00000000000F0490 000024 (v02 ALASKA)",
	"PCI: Using configuration type 1 for base access",
	"clocksource: hpet: mask: 0xffffffff max_cycles: 0xffffffff",
	"random: crng init done",
	"Memory: 16283420K/16669132K available",
	"SLUB: HWalign=64, Order=0-3, MinObjects=0, CPUs=8, Nodes=1",
	"rcu: Hierarchical RCU implementation.",
	"NR_IRQS: 524544, nr_irqs: 2048, preallocated irqs: 16",
	"Console: colour dummy device 80x25",
	"printk: console [tty0] enabled",
	"ACPI: Core revision 20190816",
	"APIC: Switch to symmetric I/O mode setup",
	"smpboot: CPU0: Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz",
	"Performance Events: PEBS fmt3+, Skylake events, 32-deep LBR",
	"smp: Brought up 1 node, 8 CPUs",
	"devtmpfs: initialized",
	"NET: Registered protocol family 16",
	"audit: initializing netlink subsys (disabled)",
	"EXT4-fs (nvme0n1p2): mounted filesystem with ordered data mode",
	"systemd[1]: Detected architecture x86-64.",
	"usb 1-1: new high-speed USB device number 2 using xhci_hcd",
	"e1000e 0000:00:1f.6 eth0: NIC Link is Up 1000 Mbps Full Duplex",
	"nvidia: module license 'NVIDIA' taints kernel.",
	"Freeing unused kernel image memory: 2712K",
	"Write protecting the kernel read-only data: 22528k",
	"Run /init as init process",
}

// Kernel generates dmesg-style lines whose uptime only moves forward.
type Kernel struct {
	rng    *rand.Rand
	uptime time.Duration
}

func NewKernel(rng *rand.Rand) *Kernel {
	return &Kernel{rng: rng}
}

// Line returns the next ring-buffer line, e.g. "[    0.004512] smp: ...".
func (k *Kernel) Line() string {
	k.uptime += time.Duration(1+k.rng.IntN(250_000)) * time.Microsecond
	msg := kernelMessages[k.rng.IntN(len(kernelMessages))]
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, UUID(k.rng))
	}
	micros := k.uptime.Microseconds()
	return fmt.Sprintf("[%5d.%06d] %s", micros/1_000_000, micros%1_000_000, msg)
}

// Batch returns n consecutive lines.
func (k *Kernel) Batch(n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, k.Line())
	}
	return lines
}
