package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var (
	ErrAdmissionNotFound     = errors.New("admission not found")
	ErrAdmissionFileNotFound = errors.New("admission file not found")
)

type AdmissionService struct {
	db *gorm.DB
}

func NewAdmissionService(db *gorm.DB) *AdmissionService {
	return &AdmissionService{db: db}
}

func (s *AdmissionService) List(userID uint, page, size int) (*dto.AdmissionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.db.Model(&models.Admission{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count admissions: %w", err)
	}

	var rows []models.Admission
	err := s.db.Where("user_id = ?", userID).
		Order("admission_date DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}

	items := make([]dto.AdmissionItem, 0, len(rows))
	for i := range rows {
		items = append(items, toAdmissionItem(&rows[i]))
	}
	return &dto.AdmissionListResponse{Items: items, Total: total}, nil
}

func (s *AdmissionService) Get(userID, id uint) (*dto.AdmissionItem, error) {
	var adm models.Admission
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&adm).Error; err != nil {
		return nil, ErrAdmissionNotFound
	}
	item := toAdmissionItem(&adm)
	return &item, nil
}

func (s *AdmissionService) Create(userID uint, req *dto.CreateAdmissionRequest) (*dto.AdmissionItem, error) {
	if req.Hospital == "" {
		return nil, errors.New("hospital is required")
	}
	admDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return nil, err
	}
	var discharge *datatypes.Date
	if req.DischargeDate != nil && *req.DischargeDate != "" {
		d, err := parseDate(*req.DischargeDate)
		if err != nil {
			return nil, err
		}
		discharge = &d
	}

	var adm models.Admission
	err = s.db.Transaction(func(tx *gorm.DB) error {
		folder, err := s.folderFor(tx, userID, time.Time(admDate))
		if err != nil {
			return err
		}
		adm = models.Admission{
			FolderID:      folder.ID,
			UserID:        userID,
			Hospital:      req.Hospital,
			Department:    req.Department,
			Diagnosis:     req.Diagnosis,
			AdmissionDate: admDate,
			DischargeDate: discharge,
			Tags:          marshalTags(req.Tags),
			Notes:         req.Notes,
		}
		return tx.Create(&adm).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admission: %w", err)
	}

	audit(s.db, userID, "create", "admission", adm.ID, req)
	item := toAdmissionItem(&adm)
	return &item, nil
}

func (s *AdmissionService) Delete(userID, id uint) error {
	var adm models.Admission
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&adm).Error; err != nil {
		return ErrAdmissionNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admission_id = ?", id).Delete(&models.AdmissionFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&adm).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete admission: %w", err)
	}

	audit(s.db, userID, "delete", "admission", id, nil)
	return nil
}

// AddFile registers an uploaded report against a stay. The storage key is
// minted here; the actual bytes live in external object storage.
func (s *AdmissionService) AddFile(userID, admissionID uint, req *dto.AddAdmissionFileRequest) (*dto.AdmissionFileResponse, error) {
	var adm models.Admission
	if err := s.db.Where("id = ? AND user_id = ?", admissionID, userID).First(&adm).Error; err != nil {
		return nil, ErrAdmissionNotFound
	}
	if req.Filename == "" {
		return nil, errors.New("filename is required")
	}

	now := time.Now()
	file := models.AdmissionFile{
		AdmissionID: admissionID,
		UserID:      userID,
		Filename:    req.Filename,
		StorageKey:  fmt.Sprintf("admissions/%d/%s", admissionID, uuid.New().String()),
		URL:         req.URL,
		Pages:       req.Pages,
		UploadedAt:  &now,
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to register file: %w", err)
	}

	audit(s.db, userID, "create", "admission_file", file.ID, req)
	resp := toAdmissionFileResponse(&file)
	return &resp, nil
}

func (s *AdmissionService) Files(userID, admissionID uint) ([]dto.AdmissionFileResponse, error) {
	var adm models.Admission
	if err := s.db.Where("id = ? AND user_id = ?", admissionID, userID).First(&adm).Error; err != nil {
		return nil, ErrAdmissionNotFound
	}

	var files []models.AdmissionFile
	if err := s.db.Where("admission_id = ?", admissionID).Order("id ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	out := make([]dto.AdmissionFileResponse, 0, len(files))
	for i := range files {
		out = append(out, toAdmissionFileResponse(&files[i]))
	}
	return out, nil
}

func (s *AdmissionService) folderFor(tx *gorm.DB, userID uint, at time.Time) (*models.AdmissionFolder, error) {
	year, month := at.Year(), int(at.Month())

	var folder models.AdmissionFolder
	err := tx.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		folder = models.AdmissionFolder{UserID: userID, Year: year, Month: month}
		if err := tx.Create(&folder).Error; err != nil {
			return nil, fmt.Errorf("failed to create folder: %w", err)
		}
		return &folder, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func marshalTags(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func unmarshalTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return []string{}
	}
	return tags
}

func toAdmissionItem(adm *models.Admission) dto.AdmissionItem {
	return dto.AdmissionItem{
		ID:            adm.ID,
		FolderID:      adm.FolderID,
		Hospital:      adm.Hospital,
		Department:    adm.Department,
		Diagnosis:     adm.Diagnosis,
		AdmissionDate: formatDate(adm.AdmissionDate),
		DischargeDate: formatDatePtr(adm.DischargeDate),
		Tags:          unmarshalTags(adm.Tags),
		Notes:         adm.Notes,
	}
}

func toAdmissionFileResponse(f *models.AdmissionFile) dto.AdmissionFileResponse {
	return dto.AdmissionFileResponse{
		ID:         f.ID,
		Filename:   f.Filename,
		StorageKey: f.StorageKey,
		URL:        f.URL,
		Pages:      f.Pages,
		UploadedAt: formatTimePtr(f.UploadedAt),
	}
}
