package services

import "delivery-status-service/internal/domain"

// AggregateMileage sums the simulated route distances per truck and overall.
func AggregateMileage(snap *domain.Snapshot) domain.MileageReport {
	ceiling := snap.Fleet().MileageCeiling
	report := domain.MileageReport{Ceiling: ceiling}

	for _, r := range snap.Routes() {
		report.Trucks = append(report.Trucks, domain.TruckMileage{TruckID: r.TruckID, Miles: r.TotalMiles})
		report.Total += r.TotalMiles
	}
	report.UnderCeiling = report.Total < ceiling

	return report
}
