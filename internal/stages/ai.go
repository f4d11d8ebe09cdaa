package stages

import (
	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
)

type aiStage struct {
	env Env
	cfg config.AI
}

func (s *aiStage) Name() string { return "AI Model Loading" }

const modelName = "Llama-3-70B-Instruct-v1"

func (s *aiStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), magenta)
	warn := func(text string) { r.logAs(yellow, text) }
	fail := func(text string) { r.logAs(red, text) }

	r.log("Initializing HuggingFace Hub client...")
	if err := r.sleep(600); err != nil {
		return err
	}
	r.log("Found model %s (size: 140GB)", r.paint(cyan, modelName))

	if chance(r.rng, s.cfg.NetworkFailure) {
		fail("Error: HuggingFace Hub: 502 Bad Gateway")
		warn("Retrying connection in 3s...")
		if err := r.sleep(3000); err != nil {
			return err
		}
		r.log("Connection established.")
	}

	r.log("Downloading model weights...")
	if err := r.bar("Downloading", s.cfg.DownloadTime.Pick(r.rng)); err != nil {
		return err
	}

	r.log("Verifying SHA256 checksums...")
	if err := r.between(s.cfg.ChecksumDelay); err != nil {
		return err
	}
	if chance(r.rng, s.cfg.ChecksumFailure) {
		warn("Warning: Checksum mismatch for shard 03, re-downloading...")
		if err := r.sleep(1000); err != nil {
			return err
		}
	}
	r.log("Integrity check passed.")

	r.log("Initializing CUDA context...")
	if err := r.sleep(500); err != nil {
		return err
	}
	r.log("Compiling custom CUDA kernels (FlashAttention-v2)...")
	if err := r.bar("Compiling", s.cfg.CompileTime.Pick(r.rng)); err != nil {
		return err
	}
	if chance(r.rng, s.cfg.KernelPanic) {
		fail("Error: illegal memory access in kernel 'fused_rotary_embedding'")
		warn("Resetting CUDA context and recompiling...")
		if err := r.sleep(2000); err != nil {
			return err
		}
	}

	r.log("Allocating tensors...")
	if chance(r.rng, s.cfg.OutOfMemory) {
		fail("Error: CUDA out of memory. Tried to allocate 24.5GB")
		warn("Reducing batch size to 1 and offloading optimizer state...")
		if err := r.sleep(1500); err != nil {
			return err
		}
	}

	for i := 1; i <= s.cfg.Layers; i++ {
		if err := r.poll(); err != nil {
			return err
		}
		kind := "Attention"
		if i%2 == 0 {
			kind = "FeedForward"
		}
		r.log("Loading layer %d/%d (%s)...", i, s.cfg.Layers, r.paint(cyan, kind))
		if err := r.between(s.cfg.LayerLoadDelay); err != nil {
			return err
		}
	}

	r.log("Model loaded successfully.")
	r.log("Quantization: INT8")
	r.log("Inference engine ready.")
	return r.sleep(500)
}
