package stages

import (
	"fmt"
	"strings"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/loggen"
)

type biosStage struct {
	env Env
	cfg config.BIOS
}

func (s *biosStage) Name() string { return "BIOS/Firmware Update Sequence" }

func (s *biosStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), yellow)
	hw := s.env.Probe()

	if err := s.post(r, hw); err != nil {
		return err
	}
	if err := s.memoryTest(r, hw); err != nil {
		return err
	}
	if err := s.devices(r); err != nil {
		return err
	}
	if err := s.pciScan(r); err != nil {
		return err
	}
	if err := s.systemInfo(r, hw); err != nil {
		return err
	}
	return s.flash(r)
}

func (s *biosStage) post(r *runner, hw Hardware) error {
	now := s.env.Now()
	serial := fmt.Sprintf("%04X-%04X-%04X-%04X",
		uint16(r.rng.Uint32()), uint16(r.rng.Uint32()), uint16(r.rng.Uint32()), uint16(r.rng.Uint32()))

	box := r.paint(cyan, "╔"+strings.Repeat("═", 63)+"╗")
	r.c.Println(box)
	r.c.Println(r.paint(cyan, fmt.Sprintf("║  %-61s║", s.cfg.Vendor)))
	r.c.Println(r.paint(cyan, fmt.Sprintf("║  %-61s║", s.cfg.Version)))
	r.c.Println(r.paint(cyan, "╚"+strings.Repeat("═", 63)+"╝"))
	r.c.Blank()
	r.c.Line(r.th.Muted, fmt.Sprintf("BIOS Date: %s  S/N: %s", s.cfg.Date, serial))
	r.c.Line(r.th.Muted, fmt.Sprintf("System Date: %s  Time: %s", now.Format("01/02/2006"), now.Format("15:04:05")))
	r.c.Line(r.th.Muted, "System Name: "+hw.Hostname)
	if err := r.sleep(s.cfg.HeaderDelay); err != nil {
		return err
	}

	r.c.Blank()
	r.c.Line(r.th.Info, "Performing POST (Power-On Self Test)...")
	if err := r.spin("CPU: "+hw.CPUBrand, s.cfg.CPUDetect); err != nil {
		return err
	}
	if err := r.spin(fmt.Sprintf("CPU Cores: %d physical", hw.CPUCount), s.cfg.CPUDetect/2); err != nil {
		return err
	}
	if hw.CPUMHz > 0 {
		return r.spin(fmt.Sprintf("CPU Speed: %.2f GHz", hw.CPUMHz/1000), s.cfg.CPUDetect/2)
	}
	return nil
}

const memorySteps = 40

func (s *biosStage) memoryTest(r *runner, hw Hardware) error {
	r.c.Blank()
	bar := r.newBar()
	step := s.cfg.MemoryTest / memorySteps
	for i := 0; i <= memorySteps; i++ {
		if err := r.poll(); err != nil {
			return err
		}
		pct := float64(i) / memorySteps
		tested := uint64(float64(hw.TotalMemoryKB) * pct)
		r.c.Printf("\rTesting Memory: %s %d/%d KB", bar.Render(pct), tested, hw.TotalMemoryKB)
		if err := r.sleep(step); err != nil {
			return err
		}
	}
	r.c.Printf(" %s\n", r.paint(green, "OK"))

	mb := hw.TotalMemoryKB / 1024
	if err := r.spin(fmt.Sprintf("Total System Memory: %.2f GB (%d MB)", float64(mb)/1024, mb), s.cfg.SystemInfo); err != nil {
		return err
	}
	if chance(r.rng, s.cfg.CMOSErrorChance) {
		r.c.Line(r.th.Warning, "WARNING: CMOS checksum invalid, loading defaults")
		return r.sleep(s.cfg.WarningDelay)
	}
	return nil
}

var ideChannels = []struct {
	slot, device string
	present      bool
}{
	{"Primary Master   [0x1F0-0x1F7]", "WDC WD2000JB-00GVC0", true},
	{"Primary Slave    [0x1F0-0x1F7]", "None", false},
	{"Secondary Master [0x170-0x177]", "ATAPI CD-ROM", true},
	{"Secondary Slave  [0x170-0x177]", "None", false},
}

func (s *biosStage) devices(r *runner) error {
	r.c.Blank()
	r.c.Line(r.th.Info, "Detecting IDE Devices...")
	for _, ch := range ideChannels {
		r.c.Printf("  %s: ", ch.slot)
		delay := s.cfg.DeviceProbe / 2
		if ch.present {
			delay = s.cfg.DeviceProbe
		}
		if err := r.sleep(delay); err != nil {
			return err
		}
		if ch.present {
			r.c.Println(r.paint(green, ch.device))
		} else {
			r.c.Line(r.th.Muted, ch.device)
		}
	}
	return nil
}

const pciSteps = 30

func (s *biosStage) pciScan(r *runner) error {
	r.c.Blank()
	r.c.Line(r.th.Info, "Scanning PCI bus...")
	bar := r.newBar()
	for i := 0; i <= pciSteps; i++ {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Printf("\r  Probing 00:00.0 - 00:1F.7: %s", bar.Render(float64(i)/pciSteps))
		if err := r.sleep(s.cfg.PCIScan / pciSteps); err != nil {
			return err
		}
	}
	r.c.Blank()

	found := []struct{ addr, kind string }{
		{fmt.Sprintf("00:%02X.0", 0x02+r.rng.IntN(0x0E)), "VGA Compatible Controller"},
		{fmt.Sprintf("00:%02X.0", 0x10+r.rng.IntN(0x0F)), "Ethernet Controller"},
		{"00:1F.3", "SMBus Controller"},
	}
	for _, dev := range found {
		r.c.Printf("  Found %s - %s\n", r.paint(cyan, dev.addr), dev.kind)
		if err := r.sleep(s.cfg.PCIScan / 4); err != nil {
			return err
		}
	}
	return nil
}

func (s *biosStage) systemInfo(r *runner, hw Hardware) error {
	d := s.cfg.SystemInfo
	r.c.Blank()
	steps := []string{
		fmt.Sprintf("Network Adapters: %d detected", hw.NetworkCount),
		"USB Controller: UHCI/EHCI Compatible",
		"USB Device(s): 0 connected",
		"",
		"Host OS: " + hw.OSName,
		fmt.Sprintf("Storage Devices: %d disk(s) found", hw.DiskCount),
		"System UUID: " + strings.ToUpper(loggen.UUID(r.rng).String()),
		"",
		"Boot Device Priority:",
	}
	for _, text := range steps {
		if text == "" {
			r.c.Blank()
			continue
		}
		if err := r.spin(text, d); err != nil {
			return err
		}
	}
	r.c.Printf("  1st: %s\n", r.paint(green, "Hard Disk Drive"))
	r.c.Printf("  2nd: %s\n", r.muted("CD-ROM Drive"))
	r.c.Printf("  3rd: %s\n", r.muted("Network Boot"))
	return r.sleep(d)
}

func (s *biosStage) flash(r *runner) error {
	r.c.Blank()
	rule := strings.Repeat("═", 63)
	r.c.Line(r.th.Accent(yellow), rule)
	r.c.Line(r.th.Strong(yellow), "  CRITICAL: Firmware Update Sequence Initiated")
	r.c.Line(r.th.Accent(yellow), rule)
	if err := r.sleep(s.cfg.HeaderDelay); err != nil {
		return err
	}

	if err := r.spin("Backing up current BIOS to NVRAM...", s.cfg.Backup); err != nil {
		return err
	}
	if err := r.spin("Verifying backup integrity... CRC32 OK", s.cfg.Verify); err != nil {
		return err
	}

	r.c.Blank()
	r.c.Line(r.th.Strong(yellow), "  WARNING: Do NOT power off or restart during this process!")
	r.c.Line(r.th.Strong(yellow), "  System damage may occur if interrupted!")
	r.c.Blank()
	if err := r.sleep(s.cfg.WarningDelay); err != nil {
		return err
	}

	for _, step := range []struct {
		label string
		ms    config.Range
	}{
		{"Erasing flash sectors:", s.cfg.Erase},
		{"Writing new firmware:", s.cfg.Write},
		{"Verifying firmware:", s.cfg.VerifyFlash},
	} {
		if err := r.bar(step.label, step.ms.Pick(r.rng)); err != nil {
			return err
		}
	}

	r.c.Blank()
	if err := r.spin("Firmware update complete!", s.cfg.Complete); err != nil {
		return err
	}
	if err := r.spin("Updating ESCD (Extended System Configuration Data)...", s.cfg.Complete); err != nil {
		return err
	}

	r.c.Blank()
	r.c.Line(r.th.Success, fmt.Sprintf("BIOS update successful - %s -> %s", s.cfg.Version, s.cfg.NewVersion))
	r.c.Line(r.th.Accent(green), "System will initialize with new firmware")
	return r.sleep(s.cfg.SuccessDelay)
}
