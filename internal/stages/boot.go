package stages

import (
	"fmt"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/loggen"
)

type bootStage struct {
	env Env
	cfg config.Boot
}

func (s *bootStage) Name() string { return "Kernel Boot Sequence" }

func (s *bootStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), yellow)

	for _, line := range loggen.NewKernel(r.rng).Batch(s.cfg.LogCount.Pick(r.rng)) {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Line(r.th.Muted, line)
		if err := r.between(s.cfg.LogDelay); err != nil {
			return err
		}
	}
	r.c.Blank()
	return r.sleep(s.cfg.FinalDelay)
}

type bootloaderStage struct {
	env Env
	cfg config.Bootloader
}

func (s *bootloaderStage) Name() string { return "Bootloader Installation" }

var (
	grubDevices = []string{"/dev/sda", "/dev/nvme0n1", "/dev/vda"}
	grubKernels = []string{"5.4.0-42-generic", "5.4.0-40-generic", "5.4.0-39-generic"}
)

const grubWriteStages = 5

func (s *bootloaderStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), yellow)

	r.c.Line(r.th.Info, "Installing GRUB2 bootloader...")
	if err := r.sleep(s.cfg.InstallDelay); err != nil {
		return err
	}
	r.c.Line(r.th.Muted, "Probing devices for bootloader installation...")
	if err := r.sleep(s.cfg.ProbeDelay); err != nil {
		return err
	}
	r.c.Line(r.th.Muted, "  Installing for x86_64-pc platform to "+pick(r.rng, grubDevices))
	if err := r.sleep(s.cfg.DeviceInstallDelay); err != nil {
		return err
	}

	r.c.Blank()
	r.c.Line(r.th.Info, "Generating grub configuration file...")
	if err := r.sleep(s.cfg.ConfigGenDelay); err != nil {
		return err
	}
	for _, k := range grubKernels {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Line(r.th.Muted, "Found linux image: /boot/vmlinuz-"+k)
		r.c.Line(r.th.Muted, "Found initrd image: /boot/initrd.img-"+k)
		if err := r.between(s.cfg.KernelScanDelay); err != nil {
			return err
		}
	}
	if chance(r.rng, s.cfg.WindowsFoundChance) {
		r.c.Line(r.th.Muted, "Found Windows Boot Manager on /dev/sda1")
		if err := r.sleep(s.cfg.WindowsDelay); err != nil {
			return err
		}
	}

	r.c.Blank()
	r.c.Line(r.th.Info, "Installing bootloader to disk...")
	for i := 1; i <= grubWriteStages; i++ {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Printf("\r%s", r.muted(fmt.Sprintf("  Writing stage %d image...", i)))
		if err := r.between(s.cfg.WriteStageDelay); err != nil {
			return err
		}
	}
	r.c.Printf("\r%s\n", r.paint(green, "  Installation finished. No error reported."))
	return r.sleep(s.cfg.FinishDelay)
}
