// Package e2e runs the full screening pipeline against a synthetic
// candidate pool: resumes are generated, analyzed, indexed, searched, and
// exported the same way a recruiter-facing deployment would.
package e2e

import (
	"fmt"
	"strings"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// ScreeningJob is the job description every corpus resume is screened
// against. It names enough real technologies that keyword reports differ
// between profiles without favoring a single one.
const ScreeningJob = `Platform Engineer

We are hiring a platform engineer to build and operate backend services
for our logistics product. Requirements: Go, Docker, MySQL, CI/CD
pipelines, Linux. Experience with monitoring and incident response is a
plus. You will work with product engineers across three teams.`

// CandidateProfile is one synthetic resume in the screening pool. Each
// underlying role carries a signature technology that appears in no other
// role, so search cases can assert the right candidates come back.
type CandidateProfile struct {
	Slug      string
	Name      string
	Email     string
	Phone     string
	Role      string
	Employer  string
	Summary   string
	Highlight string
	Degree    string
	Skills    []string
}

// ResumeLines renders the profile as resume lines in the layout the
// section segmenter recognizes: contact block, then headed sections.
func (c *CandidateProfile) ResumeLines() []string {
	handle := strings.ReplaceAll(strings.ToLower(c.Name), " ", "")
	return []string{
		c.Name,
		c.Email + " | " + c.Phone + " | linkedin.com/in/" + handle,
		"",
		"PROFESSIONAL SUMMARY",
		c.Summary,
		"PROFESSIONAL EXPERIENCE",
		c.Role + ", " + c.Employer,
		c.Highlight,
		"EDUCATION",
		c.Degree,
		"SKILLS",
		strings.Join(c.Skills, ", "),
	}
}

// ResumeText is the plain-text rendering used for phrase scans.
func (c *CandidateProfile) ResumeText() string {
	return strings.Join(c.ResumeLines(), "\n")
}

// RawDocument packages the profile as an uploaded .docx resume.
func (c *CandidateProfile) RawDocument() *models.RawDocument {
	content := ResumeDOCX(c.ResumeLines()...)
	return &models.RawDocument{
		Filename: c.Slug + ".docx",
		Size:     int64(len(content)),
		Content:  content,
	}
}

// SearchCase is a recruiter query plus the candidate slugs whose resumes
// mention it. At least one of ExpectedSlugs must appear in the results.
type SearchCase struct {
	Query         string
	ExpectedSlugs []string
	Description   string
}

// Corpus holds the candidate pool and query test cases for E2E tests.
type Corpus struct {
	Candidates      []CandidateProfile
	SearchCases     []SearchCase
	TotalCandidates int
	TotalQueries    int
}

const corpusSize = 60

// BuildCorpus returns a pool of 60 candidates (two per role profile, with
// different names) and one search case per signature technology.
func BuildCorpus() *Corpus {
	candidates := buildCandidates(corpusSize)
	cases := buildSearchCases(candidates)
	return &Corpus{
		Candidates:      candidates,
		SearchCases:     cases,
		TotalCandidates: len(candidates),
		TotalQueries:    len(cases),
	}
}

type roleProfile struct {
	role      string
	employer  string
	summary   string
	highlight string
	degree    string
	skills    []string
}

// roleProfiles are the 30 underlying roles. Each carries one signature
// technology (the matching entry in signatureQueries) that no other role
// mentions anywhere in its resume text.
var roleProfiles = []roleProfile{
	{"Backend Engineer", "Cloudrange", "Backend engineer with eight years designing Go services.",
		"Designed gRPC microservices in Go handling 40k requests per second.",
		"BS Computer Science, University of Washington", []string{"Go", "gRPC", "Protocol Buffers", "MySQL", "Docker"}},
	{"Frontend Engineer", "Brightpath Labs", "Frontend engineer focused on accessible web applications.",
		"Built React interfaces in TypeScript with strict component testing.",
		"BS Human-Computer Interaction, Carnegie Mellon University", []string{"React", "TypeScript", "JavaScript", "CSS", "Webpack"}},
	{"DevOps Engineer", "Northwind Systems", "Infrastructure engineer automating cloud environments.",
		"Provisioned environments with Terraform and Ansible across three regions.",
		"BS Information Systems, Georgia Tech", []string{"Terraform", "Ansible", "Jenkins", "Bash", "Docker"}},
	{"Data Engineer", "Meridian Analytics", "Data engineer building batch and event-driven pipelines.",
		"Scheduled Spark jobs through Airflow processing two billion records daily.",
		"MS Data Engineering, University of Michigan", []string{"Spark", "Airflow", "Python", "SQL", "Parquet"}},
	{"Machine Learning Engineer", "Vertex Biotech", "Machine learning engineer shipping models to production.",
		"Trained PyTorch models and served them behind a feature store.",
		"PhD Machine Learning, University of Toronto", []string{"PyTorch", "Python", "NumPy", "MLflow", "Docker"}},
	{"Site Reliability Engineer", "Quorum Networks", "Reliability engineer who keeps error budgets honest.",
		"Cut alert noise in half by rebuilding Prometheus rules and Grafana boards.",
		"BS Computer Engineering, Purdue University", []string{"Prometheus", "Grafana", "PagerDuty", "Python", "Linux"}},
	{"iOS Engineer", "Harbor Mobile", "Mobile engineer shipping consumer apps since 2016.",
		"Rebuilt the checkout flow in Swift with offline support.",
		"BS Software Engineering, Cal Poly", []string{"Swift", "SwiftUI", "Xcode", "Core Data", "Fastlane"}},
	{"Android Engineer", "Harbor Mobile", "Mobile engineer focused on startup time and battery life.",
		"Migrated the app to Kotlin coroutines, halving cold start time.",
		"BS Computer Science, UT Austin", []string{"Kotlin", "Android SDK", "Jetpack Compose", "Gradle"}},
	{"Security Engineer", "Sentinel Security", "Offensive security specialist with OSCP certification.",
		"Led penetration tests against web and mobile targets for finance clients.",
		"BS Cybersecurity, Rochester Institute of Technology", []string{"Burp Suite", "Metasploit", "Nmap", "Python", "Wireshark"}},
	{"QA Automation Engineer", "Verity Software", "Test engineer who automates the boring parts.",
		"Replaced manual regression passes with Selenium suites run in CI.",
		"BS Computer Science, NC State", []string{"Selenium", "Cypress", "Java", "TestNG", "Jenkins"}},
	{"Database Administrator", "Ledgerline Financial", "Database administrator for transaction-heavy workloads.",
		"Tuned PostgreSQL replication and query plans for sub-millisecond reads.",
		"BS Information Technology, Penn State", []string{"PostgreSQL", "pgBouncer", "SQL", "Liquibase", "Linux"}},
	{"Platform Engineer", "Skyfleet", "Platform engineer running multi-tenant compute.",
		"Operated Kubernetes clusters across 400 nodes with zero-downtime upgrades.",
		"BS Computer Science, University of Illinois", []string{"Kubernetes", "Helm", "ArgoCD", "Go", "Linux"}},
	{"Streaming Platform Engineer", "Pulsewave Media", "Event streaming specialist for high-throughput feeds.",
		"Scaled Kafka topics to a million messages per second.",
		"MS Computer Science, UCLA", []string{"Kafka", "Flink", "Avro", "Java", "ZooKeeper"}},
	{"Search Engineer", "Findable Inc", "Search engineer obsessed with relevance metrics.",
		"Tuned Elasticsearch analyzers and lifted click-through 18 percent.",
		"MS Information Retrieval, University of Glasgow", []string{"Elasticsearch", "Lucene", "Python", "Kibana", "SQL"}},
	{"Embedded Systems Engineer", "Arcadia Devices", "Embedded engineer for battery-powered sensors.",
		"Wrote firmware in C for a low-power sensor mesh.",
		"BS Electrical Engineering, Virginia Tech", []string{"C", "FreeRTOS", "ARM Cortex", "I2C", "JTAG"}},
	{"Cloud Architect", "Atlas Retail", "Cloud architect moving retail workloads off premises.",
		"Designed serverless order processing on AWS Lambda and DynamoDB.",
		"BS Computer Science, University of Florida", []string{"AWS", "Lambda", "DynamoDB", "CloudFormation", "Python"}},
	{".NET Developer", "Fairmont Insurance", "Enterprise developer on the Microsoft stack.",
		"Moved claims processing to Azure with C# background services.",
		"BS Management Information Systems, Indiana University", []string{"C#", ".NET", "Azure", "SQL Server", "Entity Framework"}},
	{"Java Developer", "Crestline Bank", "Backend developer for regulated banking systems.",
		"Built Spring Boot services with strict audit logging.",
		"BS Computer Science, Rutgers University", []string{"Java", "Spring Boot", "Hibernate", "Maven", "Oracle"}},
	{"Backend Developer", "Casca Health", "Web backend developer in healthcare.",
		"Shipped Django REST endpoints for patient scheduling.",
		"BS Computer Science, University of Arizona", []string{"Python", "Django", "Celery", "Redis", "MySQL"}},
	{"Full Stack Developer", "Bloomly", "Full stack developer at consumer startups.",
		"Grew a Rails monolith to its first million users.",
		"BA Computer Science, Oberlin College", []string{"Ruby", "Rails", "Hotwire", "Sidekiq", "MySQL"}},
	{"Software Engineer", "Mercado Web Studio", "Engineer maintaining high-traffic storefronts.",
		"Modernized legacy storefronts onto Laravel with queue workers.",
		"BS Computer Science, Florida State University", []string{"PHP", "Laravel", "Composer", "MySQL", "Redis"}},
	{"Data Analyst", "Beacon Logistics", "Analyst turning shipping data into decisions.",
		"Built Tableau dashboards tracking fleet utilization daily.",
		"BS Statistics, University of Minnesota", []string{"Tableau", "SQL", "Excel", "Python", "dbt"}},
	{"Network Engineer", "Corelink ISP", "Network engineer for a regional internet provider.",
		"Managed Cisco routing and BGP peering across twelve points of presence.",
		"BS Network Engineering, DePaul University", []string{"Cisco IOS", "BGP", "OSPF", "Juniper", "Ansible"}},
	{"Smart Contract Engineer", "Ledgerworks", "Engineer auditing and writing on-chain programs.",
		"Audited Solidity contracts securing nine figures of value.",
		"BS Mathematics, University of Waterloo", []string{"Solidity", "Ethereum", "Hardhat", "TypeScript", "Go"}},
	{"Gameplay Programmer", "Polyhedral Games", "Gameplay programmer on mobile titles.",
		"Built Unity gameplay systems for a physics puzzler.",
		"BS Game Development, DigiPen", []string{"Unity", "C#", "Blender", "Shader Graph", "Git"}},
	{"Technical Writer", "Docuflow", "Writer making developer products understandable.",
		"Owned API documentation and quickstart guides for three SDKs.",
		"BA English, University of Iowa", []string{"Markdown", "OpenAPI", "Git", "Vale", "Hugo"}},
	{"Backend Developer", "Parcelroute", "Node.js developer for logistics APIs.",
		"Built Express services streaming parcel telemetry.",
		"BS Computer Science, SUNY Buffalo", []string{"Node.js", "Express", "MongoDB", "RabbitMQ", "JavaScript"}},
	{"Systems Engineer", "Ferrous Compute", "Systems engineer for storage infrastructure.",
		"Rewrote a storage proxy in Rust, cutting memory use by 60 percent.",
		"MS Computer Science, ETH Zurich", []string{"Rust", "Tokio", "C", "LLVM", "Linux"}},
	{"Quantitative Developer", "Marketfront Trading", "Low latency developer on execution systems.",
		"Shaved microseconds off order latency in C++ matching engines.",
		"MS Financial Engineering, Columbia University", []string{"C++", "Boost", "TCP/IP", "CMake", "Python"}},
	{"Distributed Systems Engineer", "Corentry", "Engineer building resilient distributed services.",
		"Built Akka actors in Scala for order fan-out.",
		"MS Distributed Systems, KTH Royal Institute", []string{"Scala", "Akka", "sbt", "Cassandra", "ZIO"}},
}

// signatureQueries hold one distinctive term per role profile, in the same
// order as roleProfiles.
var signatureQueries = []string{
	"grpc", "react", "terraform", "spark", "pytorch",
	"prometheus", "swift", "kotlin", "penetration", "selenium",
	"postgresql", "kubernetes", "kafka", "elasticsearch", "firmware",
	"serverless", "azure", "spring", "django", "rails",
	"laravel", "tableau", "cisco", "solidity", "unity",
	"documentation", "express", "rust", "latency", "akka",
}

func buildCandidates(n int) []CandidateProfile {
	firstNames := []string{"Ava", "Liam", "Maya", "Noah", "Zoe", "Ethan", "Lena", "Omar", "Priya", "Jonas", "Ines", "Marcus"}
	lastNames := []string{"Okafor", "Lindqvist", "Tanaka", "Moreau", "Castillo", "Novak", "Adeyemi", "Haas", "Kaur", "Petrov"}

	out := make([]CandidateProfile, 0, n)
	for i := 0; i < n; i++ {
		p := roleProfiles[i%len(roleProfiles)]
		first := firstNames[i%len(firstNames)]
		last := lastNames[i%len(lastNames)]
		out = append(out, CandidateProfile{
			Slug:      fmt.Sprintf("cand-%03d", i+1),
			Name:      first + " " + last,
			Email:     strings.ToLower(first) + "." + strings.ToLower(last) + "@example.com",
			Phone:     fmt.Sprintf("(555) 01%d-%04d", i%10, 1000+i),
			Role:      p.role,
			Employer:  p.employer,
			Summary:   p.summary,
			Highlight: p.highlight,
			Degree:    p.degree,
			Skills:    p.skills,
		})
	}
	return out
}

// buildSearchCases pairs each signature query with every candidate whose
// resume text mentions it.
func buildSearchCases(candidates []CandidateProfile) []SearchCase {
	var cases []SearchCase
	for _, q := range signatureQueries {
		var slugs []string
		for i := range candidates {
			if candidateMentions(&candidates[i], q) {
				slugs = append(slugs, candidates[i].Slug)
			}
		}
		if len(slugs) == 0 {
			continue
		}
		cases = append(cases, SearchCase{
			Query:         q,
			ExpectedSlugs: slugs,
			Description:   fmt.Sprintf("query %q should surface one of %v", q, slugs),
		})
	}
	return cases
}

func candidateMentions(c *CandidateProfile, phrase string) bool {
	return strings.Contains(strings.ToLower(c.ResumeText()), strings.ToLower(phrase))
}
