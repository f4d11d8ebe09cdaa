package stages

import (
	"fmt"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
)

type xorgStage struct {
	env Env
	cfg config.Xorg
}

func (s *xorgStage) Name() string { return "X Window System Setup" }

type gpu struct {
	name, driver, slot, deviceID string
	modes                        []string
}

var (
	xorgPackages = [][2]string{
		{"xserver-xorg-core", "1.21.1-7"},
		{"xserver-xorg-input-libinput", "1.4.0-1"},
		{"xserver-xorg-input-wacom", "1.2.0-2"},
		{"xserver-xorg-video-intel", "2.99.917-9"},
		{"xserver-xorg-video-nouveau", "1.0.17-2"},
		{"xserver-xorg-video-amdgpu", "23.0.0-1"},
		{"libgl1-mesa-dri", "24.1.7-1"},
		{"libglx-mesa0", "24.1.7-1"},
		{"libgl1-mesa-glx", "24.1.7-1"},
		{"mesa-vulkan-drivers", "24.1.7-1"},
		{"xserver-xorg-legacy", "1.21.1-7"},
		{"xfonts-base", "1.0.5"},
	}

	gpus = []gpu{
		{"Intel UHD Graphics 630", "i915", "00:02.0", "8086:9bc8", []string{"1920x1080", "2560x1440", "1680x1050"}},
		{"NVIDIA GeForce RTX 3080", "nvidia", "01:00.0", "10de:2206", []string{"3840x2160", "2560x1440", "1920x1080"}},
		{"AMD Radeon RX 6800 XT", "amdgpu", "01:00.0", "1002:73bf", []string{"3840x2160", "2560x1440", "1920x1080"}},
		{"VirtualBox Graphics Adapter", "vboxvideo", "00:02.0", "80ee:beef", []string{"1920x1080", "1280x720"}},
	}

	xorgModules = [][2]string{
		{"fb", "Framebuffer support"},
		{"dbe", "Double buffer extension"},
		{"glx", "OpenGL extension"},
		{"dri2", "Direct Rendering Infrastructure v2"},
		{"extmod", "Extension modules"},
		{"int10", "x86 emulation"},
		{"vbe", "VESA BIOS extensions"},
		{"record", "Record extension"},
	}

	xorgExtensions = [][2]string{
		{"MIT-SHM", "Shared memory support"},
		{"Composite", "Window composition"},
		{"RENDER", "Anti-aliased rendering"},
		{"RANDR", "Resolution and rotation"},
		{"GLX", "OpenGL acceleration"},
		{"XVideo", "Hardware video acceleration"},
		{"XINERAMA", "Multi-monitor support"},
		{"DRI3", "Direct Rendering Infrastructure"},
		{"Present", "Advanced frame presentation"},
		{"DAMAGE", "Screen damage notification"},
	}

	inputDevices = [][3]string{
		{"AT Translated Set 2 keyboard", "event0", "keyboard"},
		{"SynPS/2 Synaptics TouchPad", "event1", "touchpad"},
		{"Logitech USB Gaming Mouse", "event2", "mouse"},
		{"HD Pro Webcam C920", "event3", "camera"},
	}

	fontDirs = []string{
		"/usr/share/fonts/X11/misc",
		"/usr/share/fonts/X11/100dpi",
		"/usr/share/fonts/X11/75dpi",
		"/usr/share/fonts/X11/Type1",
		"/usr/share/fonts/truetype",
	}

	xorgConfigFiles = []string{
		"/etc/X11/xorg.conf",
		"/etc/X11/xorg.conf.d/10-monitor.conf",
		"/etc/X11/xorg.conf.d/20-intel.conf",
		"/etc/X11/xorg.conf.d/40-libinput.conf",
		"/etc/X11/xorg.conf.d/50-synaptics.conf",
	}

	// xorgSections pairs each xorg.conf section with the settings printed under it.
	xorgSections = []struct {
		name     string
		settings []string
	}{
		{"ServerLayout", []string{"Setting default screen to 0"}},
		{"InputDevice", []string{"Keyboard: CoreKeyboard", "Pointer: CorePointer"}},
		{"Monitor", []string{"HorizSync: 30.0 - 83.0 kHz"}},
		{"Device", []string{`Option "AccelMethod" "sna"`, `Option "TearFree" "true"`}},
		{"Screen", []string{"DefaultDepth: 24"}},
	}
)

func (s *xorgStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), yellow)

	steps := []func(*runner) error{
		s.installPackages,
		s.probeGPU,
		s.loadModules,
		s.initGLX,
		s.loadExtensions,
		s.detectInput,
		s.configureScreen,
		s.scanFonts,
		s.writeConfig,
	}
	for _, step := range steps {
		if err := step(r); err != nil {
			return err
		}
	}

	r.c.Blank()
	r.log("%s", r.th.Success.Render("X Window System configured successfully!"))
	return r.sleep(400)
}

// section prints a timestamped cyan heading after a blank line.
func (s *xorgStage) section(r *runner, title string, ms int) error {
	r.c.Blank()
	r.log("%s", r.paint(cyan, title))
	return r.sleep(ms)
}

func (s *xorgStage) installPackages(r *runner) error {
	r.log("%s", r.th.Strong(white).Render("Installing X.Org Server packages..."))
	if err := r.sleep(400); err != nil {
		return err
	}
	r.c.Blank()
	for _, p := range xorgPackages {
		if err := r.poll(); err != nil {
			return err
		}
		r.log("  [+] %s %s", r.paint(white, p[0]), r.muted("("+p[1]+")"))
		if err := r.between(s.cfg.PackageDelay); err != nil {
			return err
		}
	}
	r.c.Blank()
	if err := r.spin("Configuring X server security policies...", s.cfg.SecurityPolicies); err != nil {
		return err
	}

	r.c.Blank()
	r.log("%s", r.th.Strong(yellow).Render("═══ Graphics Hardware Detection ═══"))
	if err := r.sleep(300); err != nil {
		return err
	}
	r.c.Blank()
	return nil
}

func (s *xorgStage) probeGPU(r *runner) error {
	r.log("%s", r.paint(cyan, "Initializing PCI bus enumeration..."))
	if err := r.between(config.Range{Min: 300, Max: 600}); err != nil {
		return err
	}
	g := pick(r.rng, gpus)
	discrete := g.driver == "nvidia" || g.driver == "amdgpu"

	r.log("  └─ Scanning PCI device %s", r.paint(white, g.slot))
	if err := r.sleep(250); err != nil {
		return err
	}
	r.log("     └─ Device ID: %s %s", r.paint(white, g.deviceID), r.muted("[VGA compatible controller]"))
	if err := r.sleep(200); err != nil {
		return err
	}
	r.log("%s", r.th.Success.Render("  Detected: "+g.name))
	if err := r.sleep(300); err != nil {
		return err
	}

	if err := s.section(r, "Loading DRM/KMS driver: "+g.driver, 400+r.rng.IntN(300)); err != nil {
		return err
	}
	ok := r.paint(green, "[OK]")
	for _, line := range []struct {
		text string
		ms   int
	}{
		{"  ├─ Initializing kernel mode setting (KMS)... " + ok, 300},
		{"  ├─ Allocating framebuffer memory (256 MB)... " + ok, 250},
		{"  ├─ Enabling DPMS (Display Power Management)... " + ok, 200},
		{"  └─ GPU acceleration: " + r.paint(green, "Enabled"), 300},
	} {
		r.log("%s", line.text)
		if err := r.sleep(line.ms); err != nil {
			return err
		}
	}

	vram, memType := 4+r.rng.IntN(5), "Shared"
	switch {
	case discrete:
		vram, memType = 8+r.rng.IntN(9), "GDDR6"
	case g.driver == "vboxvideo":
		vram = 128
	}
	if err := s.section(r, "Querying video memory...", 400); err != nil {
		return err
	}
	r.log("  ├─ Total VRAM: %s %s", r.paint(white, fmt.Sprintf("%d MB", vram)), r.muted("(dedicated)"))
	if err := r.sleep(200); err != nil {
		return err
	}
	r.log("  └─ Memory type: %s", r.paint(white, memType))
	if err := r.sleep(250); err != nil {
		return err
	}

	return s.outputs(r, g, discrete)
}

func (s *xorgStage) outputs(r *runner, g gpu, discrete bool) error {
	if err := s.section(r, "Enumerating display outputs...", 500); err != nil {
		return err
	}
	outputs := []string{"eDP-1", "HDMI-1", "DP-1"}
	switch {
	case discrete:
		outputs = []string{"DisplayPort-0", "HDMI-0", "DVI-D-0"}
	case g.driver == "vboxvideo":
		outputs = []string{"Virtual-1"}
	}

	for i, out := range outputs {
		if err := r.poll(); err != nil {
			return err
		}
		if i > 0 {
			r.log("  ├─ %s: %s", r.paint(white, out), r.muted("Disconnected"))
		} else {
			r.log("  ├─ %s: %s", r.paint(white, out), r.paint(green, "Connected"))
			mode := pick(r.rng, g.modes)
			refresh := 60
			if mode != "3840x2160" && chance(r.rng, s.cfg.HighRefresh) {
				refresh = 144
			}
			if err := r.sleep(200); err != nil {
				return err
			}
			r.log("  │  ├─ Preferred mode: %s@%dHz", r.paint(white, mode), refresh)
			r.log("  │  ├─ Color depth: %s %s", r.paint(white, "24-bit"), r.muted("(TrueColor)"))
			r.log("  │  └─ EDID checksum: %s", r.paint(green, "Valid"))
		}
		if err := r.sleep(150); err != nil {
			return err
		}
	}
	return nil
}

func (s *xorgStage) loadModules(r *runner) error {
	if err := s.section(r, "Loading X server modules...", 400); err != nil {
		return err
	}
	for _, m := range xorgModules {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Printf("%s   [*] %s ", r.stamp(), r.paint(white, m[0]))
		if err := r.between(s.cfg.ModuleDelay); err != nil {
			return err
		}
		r.c.Line(r.th.Muted, "("+m[1]+")")
	}
	return nil
}

func (s *xorgStage) initGLX(r *runner) error {
	if err := s.section(r, "Initializing GLX (OpenGL Extension)...", 400+r.rng.IntN(300)); err != nil {
		return err
	}
	lines := [][2]string{
		{"├─ GLX version", "1.4"},
		{"├─ OpenGL version", pick(r.rng, []string{"4.6", "4.5", "4.3"})},
		{"├─ Mesa driver", "24.1.7"},
		{"├─ GLSL version", "4.60"},
	}
	for _, l := range lines {
		r.log("  %s: %s", l[0], r.paint(white, l[1]))
		if err := r.sleep(200); err != nil {
			return err
		}
	}
	r.log("  └─ Direct rendering: %s", r.paint(green, "Yes"))
	return r.sleep(300)
}

func (s *xorgStage) loadExtensions(r *runner) error {
	if err := s.section(r, "Loading X server extensions...", 400); err != nil {
		return err
	}
	for _, ext := range xorgExtensions {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Printf("%s   ├─ %s ", r.stamp(), r.paint(white, ext[0]))
		if err := r.between(config.Range{Min: 100, Max: 300}); err != nil {
			return err
		}
		r.c.Printf("%s %s\n", r.paint(green, "[LOADED]"), r.muted("("+ext[1]+")"))
	}
	return r.sleep(200)
}

func (s *xorgStage) detectInput(r *runner) error {
	if err := s.section(r, "Detecting input devices...", 500); err != nil {
		return err
	}
	for i, dev := range inputDevices {
		if err := r.poll(); err != nil {
			return err
		}
		last := i == len(inputDevices)-1
		r.log("  %s /dev/input/%s → %s", tree(i, len(inputDevices)), r.paint(white, dev[1]), r.muted(dev[0]))
		if err := r.sleep(200); err != nil {
			return err
		}
		trunk := "│"
		if last {
			trunk = " "
		}
		r.log("  %s  └─ Driver: %s %s", trunk, r.paint(white, "libinput"), r.muted("["+dev[2]+"]"))
		if err := r.between(config.Range{Min: 150, Max: 300}); err != nil {
			return err
		}
	}
	return nil
}

func (s *xorgStage) configureScreen(r *runner) error {
	if err := s.section(r, "Configuring screen parameters...", 500); err != nil {
		return err
	}
	dpi := 90 + r.rng.IntN(21)
	r.log("  ├─ Physical size: %s × %s mm", r.paint(white, "508"), r.paint(white, "285"))
	if err := r.sleep(200); err != nil {
		return err
	}
	r.log("  ├─ DPI: %s", r.paint(white, fmt.Sprintf("%d × %d", dpi, dpi)))
	if err := r.sleep(200); err != nil {
		return err
	}
	r.log("  └─ Virtual size: %s", r.paint(white, "3840 × 2160"))
	return r.sleep(300)
}

func (s *xorgStage) scanFonts(r *runner) error {
	if err := s.section(r, "Scanning font directories...", 400); err != nil {
		return err
	}
	for i, dir := range fontDirs {
		if err := r.poll(); err != nil {
			return err
		}
		fonts := 12 + r.rng.IntN(144)
		r.log("  %s %s %s %s", tree(i, len(fontDirs)), r.paint(white, dir),
			r.muted(fmt.Sprintf("[%d fonts]", fonts)), r.paint(green, "[OK]"))
		if err := r.between(config.Range{Min: 100, Max: 250}); err != nil {
			return err
		}
	}
	r.c.Blank()
	if err := r.spin("Building font cache (fc-cache)...", s.cfg.FontCache); err != nil {
		return err
	}

	if err := s.section(r, "Loading cursor theme...", 400); err != nil {
		return err
	}
	r.log("  └─ Theme: %s %s", r.paint(white, "Adwaita"), r.muted("(24px)"))
	return r.sleep(300)
}

func (s *xorgStage) writeConfig(r *runner) error {
	if err := s.section(r, "Writing configuration files...", 400); err != nil {
		return err
	}
	for i, file := range xorgConfigFiles {
		if err := r.poll(); err != nil {
			return err
		}
		r.c.Printf("%s   %s %s ", r.stamp(), tree(i, len(xorgConfigFiles)), r.paint(white, file))
		if err := r.between(config.Range{Min: 200, Max: 400}); err != nil {
			return err
		}
		r.c.Println(r.paint(green, "[CREATED]"))
	}

	if err := s.section(r, "Generating xorg.conf sections...", 600); err != nil {
		return err
	}
	for i, sec := range xorgSections {
		last := i == len(xorgSections)-1
		r.log("  %s Section %q %s", tree(i, len(xorgSections)), sec.name, r.paint(green, "[OK]"))
		if err := r.sleep(200); err != nil {
			return err
		}
		trunk := "│  "
		if last {
			trunk = "   "
		}
		for j, setting := range sec.settings {
			r.log("  %s%s %s", trunk, tree(j, len(sec.settings)), setting)
			if err := r.sleep(150); err != nil {
				return err
			}
		}
	}
	return r.sleep(300)
}
