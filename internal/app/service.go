package app

import (
	"time"

	"municipal-limits/internal/adapters"
	"municipal-limits/internal/ports"
)

type Service struct {
	Manifest   ports.ManifestPort
	Reader     ports.VectorReaderPort
	Writer     ports.VectorWriterPort
	Discovery  ports.SourceDiscoveryPort
	Geometry   ports.GeometryPort
	Projection ports.ReprojectionPort
	Reports    ports.ReportPort
	NewID      func() string
	Clock      func() time.Time
}

func NewService() Service {
	vectors := adapters.NewVectorFileAdapter()
	return Service{
		Manifest:   adapters.NewManifestFileAdapter(),
		Reader:     vectors,
		Writer:     vectors,
		Discovery:  adapters.NewSourceDiscoveryAdapter(vectors),
		Geometry:   adapters.NewGEOSEngineAdapter(),
		Projection: adapters.NewProjReprojectorAdapter(),
		Reports:    adapters.NewReportFileAdapter(),
		Clock:      time.Now,
	}
}
