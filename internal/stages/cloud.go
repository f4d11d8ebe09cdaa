package stages

import (
	"github.com/charmbracelet/lipgloss"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
)

type cloudStage struct {
	env Env
	cfg config.Cloud
}

func (s *cloudStage) Name() string { return "Cloud Infrastructure Provisioning" }

type resource struct {
	addr, kind string
}

var terraformPlan = []resource{
	{"aws_vpc.main", "VPC"},
	{"aws_subnet.public_1", "Subnet"},
	{"aws_subnet.public_2", "Subnet"},
	{"aws_internet_gateway.gw", "Gateway"},
	{"aws_iam_role.lambda_exec", "IAM Role"},
	{"aws_security_group.allow_tls", "Security Group"},
	{"aws_instance.web_server", "EC2 Instance"},
	{"aws_db_instance.default", "RDS Instance"},
	{"aws_dynamodb_table.users", "DynamoDB"},
	{"aws_lambda_function.processor", "Lambda"},
	{"aws_kinesis_stream.events", "Kinesis"},
	{"aws_s3_bucket.assets", "S3 Bucket"},
	{"aws_route53_record.www", "Route53"},
	{"aws_cloudfront_distribution.cdn", "CloudFront"},
}

func (res resource) color() lipgloss.Color {
	switch res.kind {
	case "IAM Role":
		return yellow
	case "EC2 Instance", "Lambda":
		return green
	case "RDS Instance", "DynamoDB":
		return blue
	case "S3 Bucket", "CloudFront":
		return magenta
	default:
		return cyan
	}
}

func (s *cloudStage) Run(check interrupt.Check) error {
	r := s.env.runner(check)
	r.header(s.Name(), cyan)

	r.log("Initializing Terraform backend...")
	if err := r.sleep(600); err != nil {
		return err
	}

	for _, res := range terraformPlan {
		if err := r.poll(); err != nil {
			return err
		}
		name := r.paint(res.color(), res.addr)
		r.log("Creating %s (%s)", name, r.muted(res.kind))
		if err := s.failures(r, res); err != nil {
			return err
		}
		if err := r.bar("Provisioning", s.cfg.ProvisionTime.Pick(r.rng)); err != nil {
			return err
		}
		r.log("Resource %s is Available", name)
	}

	r.c.Blank()
	r.c.Line(r.th.Accent(green), "Infrastructure provisioning complete.")
	return r.sleep(500)
}

// failures plays the provider errors that may hit res before it is created.
func (s *cloudStage) failures(r *runner, res resource) error {
	if chance(r.rng, s.cfg.RateLimit) {
		if err := r.between(config.Range{Min: 200, Max: 500}); err != nil {
			return err
		}
		r.logAs(red, "Error: 429 Too Many Requests (RequestLimitExceeded)")
		r.logAs(yellow, "Throttling...")
		if err := r.sleep(2000); err != nil {
			return err
		}
		r.log("Resuming operation...")
	}

	switch {
	case res.kind == "EC2 Instance" && chance(r.rng, s.cfg.InsufficientCapacity):
		if err := r.sleep(1000); err != nil {
			return err
		}
		r.logAs(red, "Error: InsufficientInstanceCapacity: We currently do not have sufficient capacity in the Availability Zone you requested.")
		r.logAs(yellow, "Retrying in different Availability Zone (us-east-1b)...")
		return r.sleep(1500)
	case res.kind == "Lambda" && chance(r.rng, s.cfg.DependencyViolation):
		r.logAs(red, "Error: The role defined for the function cannot be assumed by the function.")
		r.logAs(yellow, "Waiting for IAM propagation...")
		return r.sleep(2500)
	case res.kind == "S3 Bucket" && chance(r.rng, s.cfg.ChecksumMismatch):
		r.logAs(red, "Error: Checksum mismatch during upload.")
		r.logAs(yellow, "Re-calculating hashes and retrying...")
		return r.sleep(1200)
	}
	return nil
}
