package stages

import (
	"fmt"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/loggen"
)

type containerStage struct {
	env Env
	cfg config.Container
}

func (s *containerStage) Name() string { return "Container Orchestration" }

var (
	containerImages = []string{
		"alpine:latest",
		"nginx:1.21-alpine",
		"postgres:14",
		"redis:6.2",
		"node:16-slim",
		"python:3.9-slim",
	}
	clusterPods = []string{"api-gateway", "auth-service", "user-service", "payment-processor", "notification-worker"}
)

func (s *containerStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), blue)

	for _, image := range containerImages {
		if err := s.pull(r, image); err != nil {
			return err
		}
	}

	r.c.Blank()
	r.log("Initializing Kubernetes cluster...")
	for _, pod := range clusterPods {
		if err := s.schedule(r, pod); err != nil {
			return err
		}
	}
	return r.sleep(500)
}

func (s *containerStage) pull(r *runner, image string) error {
	if err := r.poll(); err != nil {
		return err
	}
	r.log("Pulling %s", r.paint(cyan, image))

	if chance(r.rng, s.cfg.ImagePullFailure) {
		if err := r.between(config.Range{Min: 500, Max: 1500}); err != nil {
			return err
		}
		r.logAs(red, "Error: Connection timed out while pulling "+image)
		if err := r.sleep(1000); err != nil {
			return err
		}
		r.logAs(yellow, "Retrying in 3s...")
		if err := r.sleep(3000); err != nil {
			return err
		}
		r.log("Retrying pull for %s", r.paint(cyan, image))
	}

	layers := s.cfg.LayerCount.Pick(r.rng)
	for i := 0; i < layers; i++ {
		label := r.muted(fmt.Sprintf("  %s Pulling fs layer", loggen.Hex(r.rng, 12)))
		if err := r.bar(label, s.cfg.LayerPullTime.Pick(r.rng)); err != nil {
			return err
		}
	}

	r.log("Digest: sha256:%s", loggen.Hex(r.rng, 64))
	r.log("Status: Downloaded newer image for %s", image)
	return r.sleep(300)
}

var (
	podStep  = config.Range{Min: 100, Max: 300}
	podMount = config.Range{Min: 200, Max: 500}
)

func (s *containerStage) schedule(r *runner, pod string) error {
	if err := r.poll(); err != nil {
		return err
	}
	r.log("Scaled up replica set %s to 1", r.paint(cyan, pod+"-rs"))
	if err := r.between(podStep); err != nil {
		return err
	}
	r.log("Pod %s Status: %s", r.paint(yellow, pod), r.paint(yellow, "Pending"))
	if err := r.between(podStep); err != nil {
		return err
	}
	r.log("Pod %s Status: %s", r.paint(yellow, pod), r.paint(blue, "ContainerCreating"))

	if chance(r.rng, s.cfg.VolumeMount) {
		pvc := "pvc-" + loggen.UUID(r.rng).String()
		r.log("Mounting volume %s to %s", r.paint(magenta, pvc), pod)
		if err := r.between(podMount); err != nil {
			return err
		}
	}
	if chance(r.rng, s.cfg.SecretMount) {
		r.log("Mounting secret %s to %s", r.paint(magenta, "vault-token"), pod)
	}
	if chance(r.rng, s.cfg.SidecarInjection) {
		r.log("Injecting sidecar %s to %s", r.paint(cyan, "istio-proxy"), pod)
		if err := r.between(podStep); err != nil {
			return err
		}
	}

	if err := r.between(podMount); err != nil {
		return err
	}
	if chance(r.rng, s.cfg.ReadinessProbeFailure) {
		r.logAs(yellow, fmt.Sprintf("Warning: Readiness probe failed for %s: Connection refused", pod))
		if err := r.sleep(800); err != nil {
			return err
		}
	}
	r.log("Readiness probe passed for %s", pod)

	if chance(r.rng, s.cfg.CrashLoop) {
		r.logAs(yellow, fmt.Sprintf("Warning: CrashLoopBackOff detected for %s, restarting...", pod))
		if err := r.sleep(800); err != nil {
			return err
		}
	}
	r.log("Pod %s Status: %s", r.paint(yellow, pod), r.paint(green, "Running"))
	r.log("Pod %s IP: 10.244.%d.%d", pod, r.rng.IntN(255), r.rng.IntN(255))
	return r.poll()
}
