package get_vendor_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

// ToServiceRequest parses the optional filters of the vendor listing
func ToServiceRequest(vendorID, startDateStr, endDateStr, statusStr, includeInactiveStr string) (*models.ListVendorBookingsRequest, error) {
	req := &models.ListVendorBookingsRequest{VendorID: vendorID}

	if startDateStr != "" {
		d, err := domain.ParseDate(startDateStr)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		req.StartDate = &d
	}
	if endDateStr != "" {
		d, err := domain.ParseDate(endDateStr)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
		req.EndDate = &d
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("endDate is before startDate")
	}
	if statusStr != "" {
		req.Status = &statusStr
	}
	if includeInactiveStr != "" {
		v, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %w", err)
		}
		req.IncludeInactive = v
	}
	return req, nil
}
