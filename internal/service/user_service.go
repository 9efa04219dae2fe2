package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo       repository.UsersRepositoryI
	tokensRepo repository.TokensRepositoryI
	issuer     TokenIssuer
}

func NewUserService(usersRepo repository.UsersRepositoryI, tokensRepo repository.TokensRepositoryI, issuer TokenIssuer) *UserService {
	if usersRepo == nil || tokensRepo == nil || issuer == nil {
		log.Fatal("on user service provided nil dependencies")
	}
	return &UserService{
		repo:       usersRepo,
		tokensRepo: tokensRepo,
		issuer:     issuer,
	}
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	user := entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	err = us.repo.Create(ctx, &user)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmailTaken) || errors.Is(err, errorvalues.ErrUsernameTaken) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	return &user, nil
}

func (us *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := us.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrWrongCredentials
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	token, expiresAt, err := us.issuer.GenerateToken(user)
	if err != nil {
		return nil, errors.New("generating token error: " + err.Error())
	}
	err = us.tokensRepo.Create(ctx, &entity.AccessToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, errors.New("saving token error: " + err.Error())
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (us *UserService) Authenticate(ctx context.Context, token string, uid uuid.UUID) (*entity.User, error) {
	stored, err := us.tokensRepo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTokenRevoked) {
			return nil, err
		}
		return nil, errors.New("tokens repository error: " + err.Error())
	}
	if stored.UserID != uid {
		return nil, errorvalues.ErrInvalidToken
	}
	if !stored.ExpiresAt.After(time.Now()) {
		return nil, errorvalues.ErrTokenRevoked
	}
	user, err := us.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrInvalidToken
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Logout(ctx context.Context, token string) error {
	if err := us.tokensRepo.Delete(ctx, token); err != nil {
		return errors.New("tokens repository error: " + err.Error())
	}
	return nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, uid uuid.UUID, req *UpdateProfileRequest) (*entity.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, err := us.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.Username == nil && req.Password == nil {
		return user, nil
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		user.PasswordHash, err = Hash(*req.Password)
		if err != nil {
			return nil, errors.New("hashing password error: " + err.Error())
		}
	}
	err = us.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUsernameTaken) || errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository updating error: " + err.Error())
	}
	if req.Password != nil {
		if err = us.tokensRepo.DeleteByUserID(ctx, uid); err != nil {
			return nil, errors.New("revoking tokens error: " + err.Error())
		}
	}
	return user, nil
}
