package utils

import (
	"fmt"
	"math/rand"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleCoordinator,
	domain.RoleCaregiver,
	domain.RoleFamilyMember,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(role domain.Role, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         role,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var coverageTypes = []domain.CoverageType{
	domain.CoverageTypePrimary,
	domain.CoverageTypeSpecialist,
	domain.CoverageTypeBackup,
}

var shiftWindows = [][2]string{
	{"06:00", "14:00"},
	{"14:00", "22:00"},
	{"22:00", "06:00"},
	{"09:00", "17:00"},
}

// GenerateRandomShift 随机生成某天的一个班次
// caregiverIDs 非空时随机指派给其中一人，为空则生成未指派的 open 班次
func GenerateRandomShift(date string, caregiverIDs []int64, createdBy int64) *domain.CareShift {
	window := shiftWindows[rand.Intn(len(shiftWindows))]

	shift := &domain.CareShift{
		Date:         date,
		StartTime:    window[0],
		EndTime:      window[1],
		Status:       domain.ShiftStatusOpen,
		CoverageType: coverageTypes[rand.Intn(len(coverageTypes))],
		CreatedBy:    createdBy,
	}

	if len(caregiverIDs) > 0 && rand.Intn(4) > 0 {
		assigneeID := caregiverIDs[rand.Intn(len(caregiverIDs))]
		shift.AssigneeID = &assigneeID
		shift.Status = domain.ShiftStatusScheduled
	}

	return shift
}

var availabilityStatuses = []domain.AvailabilityStatus{
	domain.AvailabilityStatusAvailable,
	domain.AvailabilityStatusTentative,
	domain.AvailabilityStatusUnavailable,
}

// GenerateRandomAvailability 随机生成某个照护者的空闲状态，周模式覆盖随机几天
func GenerateRandomAvailability(userID int64) *domain.UserAvailability {
	av := &domain.UserAvailability{
		UserID:        userID,
		Status:        availabilityStatuses[rand.Intn(len(availabilityStatuses))],
		Overrides:     make(map[string]domain.AvailabilityStatus),
		WeeklyPattern: make(map[int32][]domain.AvailabilitySlot),
	}

	for day := int32(0); day <= 6; day++ {
		if rand.Intn(2) == 0 {
			continue
		}
		window := shiftWindows[rand.Intn(len(shiftWindows))]
		av.WeeklyPattern[day] = []domain.AvailabilitySlot{
			{
				StartTime: window[0],
				EndTime:   window[1],
				Status:    availabilityStatuses[rand.Intn(len(availabilityStatuses))],
			},
		}
	}

	return av
}

var templateNames = []string{"日间照护", "晚间照护", "夜间值守", "陪同就诊"}

func GenerateRandomTemplate() *domain.ShiftTemplate {
	return &domain.ShiftTemplate{
		Name:            templateNames[rand.Intn(len(templateNames))] + fmt.Sprintf("%02d", rand.Intn(100)),
		DurationMinutes: int32((rand.Intn(8) + 1) * 60),
		CoverageType:    coverageTypes[rand.Intn(len(coverageTypes))],
	}
}

// GenerateRandomPreferences 随机生成覆盖要求配置
func GenerateRandomPreferences(caregiverIDs []int64) *domain.CoveragePreferences {
	blocks := []string{"morning", "afternoon", "night", "overnight"}

	prefs := &domain.CoveragePreferences{
		Required:            make(map[string]domain.BlockRequirement),
		PreferredCaregivers: make(map[string][]int64),
	}

	for _, block := range blocks {
		prefs.Required[block] = domain.BlockRequirement{
			Weekday: int32(rand.Intn(2) + 1),
			Weekend: int32(rand.Intn(2)),
		}
		if len(caregiverIDs) > 0 {
			prefs.PreferredCaregivers[block] = []int64{caregiverIDs[rand.Intn(len(caregiverIDs))]}
		}
	}

	prefs.CriticalSlots = []domain.CriticalTimeSlot{
		{
			Days:      []int32{1, 3, 5},
			StartTime: "08:00",
			EndTime:   "10:00",
			Reason:    "晨间服药",
		},
	}

	return prefs
}
